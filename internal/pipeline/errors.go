package pipeline

// Fatal error kinds for one request. Each wraps its cause; the step-decode
// failure mid-generation is deliberately not here because it degrades the
// result instead of failing the request.

type modelLoadError struct{ err error }

func (e modelLoadError) Error() string { return "model load: " + e.err.Error() }
func (e modelLoadError) Unwrap() error { return e.err }

// ErrModelLoad wraps a model file open/parse failure.
func ErrModelLoad(err error) error { return modelLoadError{err: err} }

// IsModelLoad reports whether err is a model load failure.
func IsModelLoad(err error) bool {
	_, ok := err.(modelLoadError)
	return ok
}

type contextCreateError struct{ err error }

func (e contextCreateError) Error() string { return "context create: " + e.err.Error() }
func (e contextCreateError) Unwrap() error { return e.err }

// ErrContextCreate wraps a KV cache/context allocation failure.
func ErrContextCreate(err error) error { return contextCreateError{err: err} }

// IsContextCreate reports whether err is a context creation failure.
func IsContextCreate(err error) bool {
	_, ok := err.(contextCreateError)
	return ok
}

type tokenizeError struct{ msg string }

func (e tokenizeError) Error() string { return "tokenize: " + e.msg }

// ErrTokenize constructs a tokenization failure.
func ErrTokenize(msg string) error { return tokenizeError{msg: msg} }

// IsTokenize reports whether err is a tokenization failure.
func IsTokenize(err error) bool {
	_, ok := err.(tokenizeError)
	return ok
}

type prefillDecodeError struct{ err error }

func (e prefillDecodeError) Error() string { return "prefill decode: " + e.err.Error() }
func (e prefillDecodeError) Unwrap() error { return e.err }

// ErrPrefillDecode wraps a forward-pass failure on the prompt batch.
func ErrPrefillDecode(err error) error { return prefillDecodeError{err: err} }

// IsPrefillDecode reports whether err is a prefill failure.
func IsPrefillDecode(err error) bool {
	_, ok := err.(prefillDecodeError)
	return ok
}
