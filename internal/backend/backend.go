// Package backend provides an interface for different execution backends,
// allowing switching between the tree-walk interpreter and the VM.
package backend

import (
	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
)

// Backend is the interface for execution backends.
type Backend interface {
	// Run executes the program from pipeline context and returns the result.
	Run(ctx *pipeline.PipelineContext) (evaluator.Object, error)

	// Name returns the backend name for display.
	Name() string
}
