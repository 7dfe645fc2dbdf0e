// Package pipeline chains the processing stages (lex, parse, execute) over a
// shared context that accumulates diagnostics.
package pipeline

import (
	"github.com/lazuli-lang/lazuli/internal/ast"
	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/token"
)

// PipelineContext carries one compilation unit through the stages.
type PipelineContext struct {
	Source   string
	FilePath string

	Tokens  []token.Token
	AstRoot *ast.Statement

	// Globals is the caller-supplied initial scope (host modules). It is an
	// explicit configuration, not a process-wide registry.
	Globals map[string]evaluator.Object

	// Result of execution, boxed to the shared object model.
	Result evaluator.Object

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages after a failure still run so diagnostics
// from every stage are collected; execution stages are expected to check
// ctx.Errors themselves.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
