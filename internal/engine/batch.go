package engine

// Batch is one forward-pass submission: parallel slices of token ids,
// absolute positions, and per-entry logits flags, all on sequence 0.
// Batches are values; the prefill batch and each decode-step batch are
// built fresh, never mutated in place.
type Batch struct {
	Tokens []Token
	Pos    []int32
	Logits []bool
}

// Len returns the number of tokens in the batch.
func (b Batch) Len() int { return len(b.Tokens) }

// PrefillBatch builds the whole-prompt batch: positions 0..n-1 with logits
// requested only for the final entry, the only output the first sampling
// decision needs.
func PrefillBatch(tokens []Token) Batch {
	n := len(tokens)
	b := Batch{
		Tokens: make([]Token, n),
		Pos:    make([]int32, n),
		Logits: make([]bool, n),
	}
	copy(b.Tokens, tokens)
	for i := range b.Pos {
		b.Pos[i] = int32(i)
	}
	if n > 0 {
		b.Logits[n-1] = true
	}
	return b
}

// StepBatch builds the one-token batch for a just-sampled token. The
// absolute position comes from the caller's cursor, not from prior batch
// contents.
func StepBatch(tok Token, pos int32) Batch {
	return Batch{
		Tokens: []Token{tok},
		Pos:    []int32{pos},
		Logits: []bool{true},
	}
}
