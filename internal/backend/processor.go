package backend

import (
	"errors"

	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend.
type ExecutionProcessor struct {
	Backend Backend
}

func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous stages failed, don't run execution.
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if errors.As(err, &diag) {
			ctx.Errors = append(ctx.Errors, diag)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrR001, 0, 0, "%v", err))
		}
		return ctx
	}

	ctx.Result = result
	return ctx
}
