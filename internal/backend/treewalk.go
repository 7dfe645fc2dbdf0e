package backend

import (
	"fmt"
	"os"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/lexer"
	"github.com/lazuli-lang/lazuli/internal/parser"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
	"github.com/lazuli-lang/lazuli/internal/token"
)

// TreeWalkBackend interprets the AST directly. It is the reference for the
// VM's semantics and the slower of the two backends.
type TreeWalkBackend struct{}

func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

func (b *TreeWalkBackend) Name() string { return "tree" }

func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}

	env := evaluator.NewEnvironment()
	for name, obj := range ctx.Globals {
		env.SetValue(name, obj)
	}
	env.SetValue("import", newTreeWalkImport(ctx.Globals))

	e := evaluator.New()
	result, err := e.Eval(ctx.AstRoot, env)
	if err != nil {
		return nil, err
	}
	// Materialize so both backends hand the host the same shapes.
	return e.Materialize(result)
}

// newTreeWalkImport mirrors the VM's import callable but keeps the nested
// run on the tree-walk path, so one backend never silently hands execution
// to the other.
func newTreeWalkImport(globals map[string]evaluator.Object) *evaluator.Builtin {
	return &evaluator.Builtin{
		Name: "import",
		Fn: func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("import takes 1 argument, got %d", len(args))
			}
			path, ok := args[0].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("import path is %s, not STRING", args[0].Type())
			}

			source, err := os.ReadFile(path.Value)
			if err != nil {
				return nil, fmt.Errorf("import %q: %v", path.Value, err)
			}
			toks := lexer.Tokenize(string(source))
			if last := toks[len(toks)-1]; last.Type == token.ILLEGAL {
				return nil, fmt.Errorf("import %q: %d:%d: illegal token %q",
					path.Value, last.Line, last.Column, last.Lexeme)
			}
			root, err := parser.New(toks).Parse()
			if err != nil {
				return nil, fmt.Errorf("import %q: %v", path.Value, err)
			}

			env := evaluator.NewEnvironment()
			for name, obj := range globals {
				env.SetValue(name, obj)
			}
			env.SetValue("import", newTreeWalkImport(globals))
			return evaluator.New().Eval(root, env)
		},
	}
}
