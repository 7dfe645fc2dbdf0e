package parser

import (
	"errors"

	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
)

// ParserProcessor is the parsing stage of the pipeline.
type ParserProcessor struct{}

func NewParserProcessor() *ParserProcessor {
	return &ParserProcessor{}
}

func (p *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Tokens == nil {
		return ctx
	}
	root, err := New(ctx.Tokens).Parse()
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if errors.As(err, &diag) {
			ctx.Errors = append(ctx.Errors, diag)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, 0, 0, "%v", err))
		}
		return ctx
	}
	ctx.AstRoot = root
	return ctx
}
