package engine

import "testing"

func TestPrefillBatch(t *testing.T) {
	toks := []Token{11, 22, 33, 44}
	b := PrefillBatch(toks)
	if b.Len() != 4 {
		t.Fatalf("len: %d", b.Len())
	}
	for i := range toks {
		if b.Tokens[i] != toks[i] {
			t.Fatalf("token %d: got %d", i, b.Tokens[i])
		}
		if b.Pos[i] != int32(i) {
			t.Fatalf("pos %d: got %d", i, b.Pos[i])
		}
		wantLogits := i == len(toks)-1
		if b.Logits[i] != wantLogits {
			t.Fatalf("logits flag %d: got %v", i, b.Logits[i])
		}
	}
}

func TestPrefillBatchCopies(t *testing.T) {
	toks := []Token{1, 2}
	b := PrefillBatch(toks)
	toks[0] = 99
	if b.Tokens[0] != 1 {
		t.Fatalf("batch must not alias the input slice")
	}
}

func TestStepBatch(t *testing.T) {
	b := StepBatch(7, 42)
	if b.Len() != 1 || b.Tokens[0] != 7 || b.Pos[0] != 42 || !b.Logits[0] {
		t.Fatalf("unexpected step batch: %+v", b)
	}
}
