package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Metric is an integer measurement that may be absent (e.g. a phase too
// fast to time, or a phase that never ran). Absent values marshal as JSON
// null and encode as -1 in the legacy text format.
type Metric struct {
	Value int64
	Valid bool
}

// MetricOf returns a present metric.
func MetricOf(v int64) Metric { return Metric{Value: v, Valid: true} }

// Or returns the value, or def when the metric is absent.
func (m Metric) Or(def int64) int64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, m.Value, 10), nil
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = MetricOf(v)
	return nil
}

// Metrics carries the phase-level performance measurements of one request.
type Metrics struct {
	// Elapsed ms from request start to the first sampled token.
	TTFTMs Metric `json:"ttft_ms"`
	// Prompt tokens per second during prefill.
	InputTPS Metric `json:"input_tps"`
	// Generated tokens per second during decode.
	OutputTPS Metric `json:"output_tps"`
	// Total decode-phase wall clock in ms. Always measured.
	DecodeMs Metric `json:"decode_ms"`
}

// StopReason records which terminal state ended the generation loop.
type StopReason string

const (
	StopEOG         StopReason = "eog"
	StopNewline     StopReason = "newline"
	StopMaxTokens   StopReason = "max_tokens"
	StopDecodeError StopReason = "decode_error"
)

// Outcome distinguishes a genuinely empty completion from a degraded or
// failed one, which the legacy text encoding cannot express.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeEmptyFailure Outcome = "empty_failure"
	OutcomePartial      Outcome = "partial_after_error"
)

// InferResult is the structured result of one completion request.
type InferResult struct {
	// Outcome of the request: ok, empty_failure, or partial_after_error.
	Outcome Outcome `json:"outcome"`
	// Why the generation loop stopped. Empty on fatal failures.
	Stop StopReason `json:"stop,omitempty"`
	// Raw generated text, verbatim.
	Output string `json:"output"`
	// Phase-level performance measurements.
	Metrics Metrics `json:"metrics"`
	// Number of generated tokens counted toward throughput.
	GeneratedTokens int `json:"generated_tokens"`
	// Number of prompt tokens after templating.
	PromptTokens int `json:"prompt_tokens"`
}

// EncodeLegacy renders the historical single-string form consumed by the
// original host application:
//
//	TTFT_MS={int};ITPS={int};OTPS={int};OET_MS={int}|{raw_output}
//
// Absent metrics encode as -1. Fatal failures encode as the empty string,
// indistinguishable from an empty completion; callers that need the
// difference should use the structured result instead. The generated text
// is appended verbatim, so embedded '|' or ';' are not escaped.
func (r InferResult) EncodeLegacy() string {
	if r.Outcome == OutcomeEmptyFailure {
		return ""
	}
	var b strings.Builder
	b.WriteString("TTFT_MS=")
	b.WriteString(strconv.FormatInt(r.Metrics.TTFTMs.Or(-1), 10))
	b.WriteString(";ITPS=")
	b.WriteString(strconv.FormatInt(r.Metrics.InputTPS.Or(-1), 10))
	b.WriteString(";OTPS=")
	b.WriteString(strconv.FormatInt(r.Metrics.OutputTPS.Or(-1), 10))
	b.WriteString(";OET_MS=")
	b.WriteString(strconv.FormatInt(r.Metrics.DecodeMs.Or(-1), 10))
	b.WriteByte('|')
	b.WriteString(r.Output)
	return b.String()
}
