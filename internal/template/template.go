// Package template applies the fixed chat layouts the supported model
// families expect around a single user turn.
package template

// Kind selects a chat template layout.
type Kind int

const (
	ChatML Kind = iota // Qwen and other ChatML models
	Gemma
	Llama3
	Phi
)

// KindFromInt maps the wire value 0-3 to a Kind. Any other value falls
// back to ChatML.
func KindFromInt(v int) Kind {
	switch v {
	case 1:
		return Gemma
	case 2:
		return Llama3
	case 3:
		return Phi
	default:
		return ChatML
	}
}

// KindForFamily picks the template for a detected model family. Unknown
// families get ChatML.
func KindForFamily(family string) Kind {
	switch family {
	case "gemma":
		return Gemma
	case "llama":
		return Llama3
	case "phi":
		return Phi
	default:
		return ChatML
	}
}

func (k Kind) String() string {
	switch k {
	case Gemma:
		return "gemma"
	case Llama3:
		return "llama3"
	case Phi:
		return "phi"
	default:
		return "chatml"
	}
}

// Format wraps prompt between the family-specific turn markers. The prompt
// is inserted verbatim: reserved markers inside it are not escaped.
func Format(prompt string, kind Kind) string {
	switch kind {
	case Gemma:
		return "<start_of_turn>user\n" + prompt + "<end_of_turn>\n<start_of_turn>model\n"
	case Llama3:
		return "<|begin_of_text|><|start_header_id|>user<|end_header_id|>\n\n" + prompt + "<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n\n"
	case Phi:
		return "<|user|>\n" + prompt + "<|end|>\n<|assistant|>\n"
	default:
		return "<|im_start|>user\n" + prompt + "<|im_end|>\n<|im_start|>assistant\n"
	}
}
