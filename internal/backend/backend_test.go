package backend

import (
	"testing"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/lexer"
	"github.com/lazuli-lang/lazuli/internal/parser"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
)

func runOn(t *testing.T, b Backend, input string) evaluator.Object {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	p := pipeline.New(lexer.NewLexerProcessor(), parser.NewParserProcessor())
	ctx = p.Run(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("frontend error: %s", ctx.Errors[0])
	}
	result, err := b.Run(ctx)
	if err != nil {
		t.Fatalf("%s backend error: %s", b.Name(), err)
	}
	return result
}

// TestBackendsAgree runs the same programs on the VM and the tree-walk
// interpreter and requires identical results.
func TestBackendsAgree(t *testing.T) {
	programs := []string{
		"1 + 2 * 3",
		"10 % 4 - 1",
		`"a".concat("b,c").split(",")[0]`,
		"if 2 == 2 then 1 else 0",
		"x: 1, y: x + 1, y * y",
		"a: b + 1, b: 2, a",
		"f: (a) => (b) => a + b, f(1)(2)",
		"fact: (n) => if n == 0 then 1 else n * fact(n - 1), fact(6)",
		"x: 99, f: (y) => (x: 1, x) + y, f(2)",
		"f: (a) => (x: a + 1, g: (b) => x, g(100)), f(5)",
		"f: (a) => (x: a, g: () => x, g()), f(7)",
		"f: (a) => (x: 1, a + x), f(9)",
		"s: {a: 1, b: 2}, s.a + s.b",
		"x: 10, s: {a: x + b, b: 2}, s.a",
		"make: (a) => {v: a + 1}, s: make(4), s.v + s.v",
		"make: (a) => {v: a}, pick: (s, b) => s.v, pick(make(3), 100)",
		"[1, 2, 3][1] + [4][0]",
		"xs: [1, 2], xs.length() + xs[0]",
		"[1, 2] == [1, 2]",
		`{a: 5}["a"]`,
	}

	vmBackend := NewVM()
	treeBackend := NewTreeWalk()
	for _, program := range programs {
		vmResult := runOn(t, vmBackend, program)
		treeResult := runOn(t, treeBackend, program)
		if !evaluator.ObjectsEqual(vmResult, treeResult) {
			t.Errorf("backends disagree on %q:\n  vm:   %s\n  tree: %s",
				program, vmResult.Inspect(), treeResult.Inspect())
		}
	}
}

func TestExecutionProcessorReportsFaults(t *testing.T) {
	ctx := pipeline.NewPipelineContext(`1 + "a"`)
	p := pipeline.New(
		lexer.NewLexerProcessor(),
		parser.NewParserProcessor(),
		NewExecutionProcessor(NewVM()),
	)
	ctx = p.Run(ctx)
	if len(ctx.Errors) == 0 {
		t.Fatalf("type mismatch did not surface as a diagnostic")
	}
	if ctx.Result != nil {
		t.Errorf("failed run still produced a result")
	}
}

func TestExecutionProcessorSkipsAfterFrontendError(t *testing.T) {
	ctx := pipeline.NewPipelineContext("x: 1 x")
	p := pipeline.New(
		lexer.NewLexerProcessor(),
		parser.NewParserProcessor(),
		NewExecutionProcessor(NewVM()),
	)
	ctx = p.Run(ctx)
	if len(ctx.Errors) != 1 {
		t.Fatalf("got %d errors, want the parser's alone", len(ctx.Errors))
	}
	if ctx.Result != nil {
		t.Errorf("execution ran despite a frontend error")
	}
}

func TestDisassembleOutput(t *testing.T) {
	ctx := pipeline.NewPipelineContext("x: 1, x + 2")
	p := pipeline.New(lexer.NewLexerProcessor(), parser.NewParserProcessor())
	ctx = p.Run(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("frontend error: %s", ctx.Errors[0])
	}
	listing, err := NewVM().Disassemble(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if listing == "" {
		t.Errorf("empty listing")
	}
}
