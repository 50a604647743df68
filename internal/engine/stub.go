//go:build !llama

package engine

// This file compiles when the 'llama' build tag is NOT set, keeping default
// builds and CI free of the native runtime. It refuses to load models
// rather than mocking inference in production binaries.

// runtimeBuilt indicates this binary was compiled with the real runtime.
var runtimeBuilt = false

// New returns the stub engine.
func New() Engine { return stubEngine{} }

type stubEngine struct{}

func (stubEngine) LoadModel(path string) (Model, error) {
	return nil, ErrRuntimeUnavailable
}
