package lexer

import (
	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
	"github.com/lazuli-lang/lazuli/internal/token"
)

// LexerProcessor is the tokenizing stage of the pipeline.
type LexerProcessor struct{}

func NewLexerProcessor() *LexerProcessor {
	return &LexerProcessor{}
}

func (p *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks := Tokenize(ctx.Source)
	last := toks[len(toks)-1]
	if last.Type == token.ILLEGAL {
		msg, ok := last.Literal.(string)
		if !ok || msg == "" {
			msg = "unexpected character"
		}
		ctx.Errors = append(ctx.Errors,
			diagnostics.NewError(diagnostics.ErrL001, last.Line, last.Column, "%s %q", msg, last.Lexeme))
		return ctx
	}
	ctx.Tokens = toks
	return ctx
}
