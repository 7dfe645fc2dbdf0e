package vm

import (
	"fmt"
	"os"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/lexer"
	"github.com/lazuli-lang/lazuli/internal/parser"
	"github.com/lazuli-lang/lazuli/internal/token"
)

// NewImportBuiltin returns the reserved import callable: it reads a source
// file, compiles it with the same initial scope as the importing unit and
// runs it on a fresh machine, returning the file's top-level value. The call
// is blocking and re-entrant; a cyclic import is not detected and will
// recurse until resource exhaustion.
func NewImportBuiltin(globals map[string]evaluator.Object) *evaluator.Builtin {
	return &evaluator.Builtin{
		Name: ImportName,
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
			chunk, err := Compile(root, globals)
			if err != nil {
				return nil, fmt.Errorf("import %q: %v", path.Value, err)
			}
			return NewMachine(chunk).RunToObject()
		},
	}
}
