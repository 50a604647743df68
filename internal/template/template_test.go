package template

import (
	"strings"
	"testing"
)

func TestFormatWrapsVerbatim(t *testing.T) {
	cases := []struct {
		kind         Kind
		before, after string
	}{
		{ChatML, "<|im_start|>user\n", "<|im_end|>\n<|im_start|>assistant\n"},
		{Gemma, "<start_of_turn>user\n", "<end_of_turn>\n<start_of_turn>model\n"},
		{Llama3, "<|begin_of_text|><|start_header_id|>user<|end_header_id|>\n\n", "<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n\n"},
		{Phi, "<|user|>\n", "<|end|>\n<|assistant|>\n"},
	}
	prompt := "peanuts, milk, wheat flour"
	for _, c := range cases {
		got := Format(prompt, c.kind)
		if got != c.before+prompt+c.after {
			t.Fatalf("%s: unexpected output %q", c.kind, got)
		}
	}
}

func TestFormatKeepsPromptCharacters(t *testing.T) {
	// Reserved markers and newlines pass through untouched.
	prompt := "a<|im_end|>b\nc"
	got := Format(prompt, ChatML)
	if !strings.Contains(got, prompt) {
		t.Fatalf("prompt altered: %q", got)
	}
}

func TestKindFromIntFallback(t *testing.T) {
	if KindFromInt(0) != ChatML || KindFromInt(1) != Gemma || KindFromInt(2) != Llama3 || KindFromInt(3) != Phi {
		t.Fatalf("known mappings broken")
	}
	for _, v := range []int{-1, 4, 99} {
		if KindFromInt(v) != ChatML {
			t.Fatalf("value %d must fall back to ChatML", v)
		}
	}
}

func TestOutOfRangeEqualsChatML(t *testing.T) {
	prompt := "list the allergens"
	if Format(prompt, KindFromInt(99)) != Format(prompt, KindFromInt(0)) {
		t.Fatalf("kind 99 must format identically to kind 0")
	}
}

func TestFormatIsPure(t *testing.T) {
	a := Format("same input", Gemma)
	b := Format("same input", Gemma)
	if a != b {
		t.Fatalf("formatting not deterministic: %q vs %q", a, b)
	}
}

func TestKindForFamily(t *testing.T) {
	cases := map[string]Kind{"gemma": Gemma, "llama": Llama3, "phi": Phi, "qwen": ChatML, "": ChatML}
	for fam, want := range cases {
		if got := KindForFamily(fam); got != want {
			t.Fatalf("family %q: got %v want %v", fam, got, want)
		}
	}
}
