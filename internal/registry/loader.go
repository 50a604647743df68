// Package registry discovers GGUF model files on disk and tags them with a
// model family so requests can default to the right chat template.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inferd/internal/common/fsutil"
	"inferd/pkg/types"
)

// LoadDir scans a directory for *.gguf files. The model ID is the full
// filename; Path is absolute; Family is detected from the filename.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{
			ID:     name,
			Name:   name,
			Path:   filepath.Join(abs, name),
			Family: DetectFamily(name),
		})
	}
	return models, nil
}

// DetectFamily guesses the model family from a GGUF filename. Unknown
// names return "" and downstream falls back to the ChatML template.
func DetectFamily(filename string) string {
	n := strings.ToLower(filename)
	switch {
	case strings.Contains(n, "qwen"):
		return "qwen"
	case strings.Contains(n, "gemma"):
		return "gemma"
	case strings.Contains(n, "llama"):
		return "llama"
	case strings.Contains(n, "phi"):
		return "phi"
	default:
		return ""
	}
}

// FindByID returns the model with the given id.
func FindByID(models []types.Model, id string) (types.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}
