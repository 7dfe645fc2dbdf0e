package parser

import (
	"strings"
	"testing"

	"github.com/lazuli-lang/lazuli/internal/ast"
	"github.com/lazuli-lang/lazuli/internal/lexer"
)

func parseStatement(t *testing.T, input string) *ast.Statement {
	t.Helper()
	stmt, err := New(lexer.Tokenize(input)).Parse()
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return stmt
}

func parseError(t *testing.T, input string) error {
	t.Helper()
	_, err := New(lexer.Tokenize(input)).Parse()
	if err == nil {
		t.Fatalf("expected a parse error for %q", input)
	}
	return err
}

// primaryOf unwraps the expression chain down to its base primary.
func primaryOf(t *testing.T, expr ast.Expression) ast.Primary {
	t.Helper()
	comp, ok := expr.(*ast.Comparison)
	if !ok {
		t.Fatalf("expression is %T, not a comparison chain", expr)
	}
	return comp.Left.Left.Left.Left
}

func TestDefinitionsAndBody(t *testing.T) {
	stmt := parseStatement(t, "x: 1, y: 2, x")
	if len(stmt.Definitions) != 2 {
		t.Fatalf("got %d definitions, want 2", len(stmt.Definitions))
	}
	if stmt.Definitions[0].Name != "x" || stmt.Definitions[1].Name != "y" {
		t.Errorf("definition names = %s, %s", stmt.Definitions[0].Name, stmt.Definitions[1].Name)
	}
	v, ok := primaryOf(t, stmt.Body).(*ast.Variable)
	if !ok || v.Name != "x" {
		t.Errorf("body is not the variable x")
	}
}

func TestNumberAndStringLiterals(t *testing.T) {
	n, ok := primaryOf(t, parseStatement(t, "1.5").Body).(*ast.Number)
	if !ok || n.Value != 1.5 {
		t.Errorf("literal not parsed as 1.5")
	}
	neg, ok := primaryOf(t, parseStatement(t, "-3").Body).(*ast.Number)
	if !ok || neg.Value != -3 {
		t.Errorf("negative literal not parsed as -3")
	}
	s, ok := primaryOf(t, parseStatement(t, `"hi"`).Body).(*ast.String)
	if !ok || s.Value != "hi" {
		t.Errorf("literal not parsed as \"hi\"")
	}
}

func TestOperatorStructure(t *testing.T) {
	// 1 + 2 * 3: the multiplication nests under the additive right side.
	stmt := parseStatement(t, "1 + 2 * 3")
	comp := stmt.Body.(*ast.Comparison)
	if len(comp.Left.Rights) != 1 || comp.Left.Rights[0].Op != ast.AddAdd {
		t.Fatalf("additive chain not parsed")
	}
	mul := comp.Left.Rights[0].Value
	if len(mul.Rights) != 1 || mul.Rights[0].Op != ast.MulMul {
		t.Errorf("multiplication did not bind tighter than addition")
	}
}

func TestComparisonChain(t *testing.T) {
	comp := parseStatement(t, "1 == 2 != 3").Body.(*ast.Comparison)
	if len(comp.Rights) != 2 {
		t.Fatalf("got %d comparison rights, want 2", len(comp.Rights))
	}
	if comp.Rights[0].Op != ast.CompEqual || comp.Rights[1].Op != ast.CompNotEqual {
		t.Errorf("comparison ops = %s, %s", comp.Rights[0].Op, comp.Rights[1].Op)
	}
}

func TestConditional(t *testing.T) {
	iff, ok := parseStatement(t, "if 1 == 2 then 3 else 4").Body.(*ast.If)
	if !ok {
		t.Fatalf("body is not an if expression")
	}
	if _, ok := iff.Cond.(*ast.Comparison); !ok {
		t.Errorf("condition is %T", iff.Cond)
	}
}

func TestFunctionVersusBlock(t *testing.T) {
	fn, ok := primaryOf(t, parseStatement(t, "(a, b) => a").Body).(*ast.Function)
	if !ok {
		t.Fatalf("parenthesized parameter list did not parse as a function")
	}
	if len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Errorf("params = %v", fn.Params)
	}

	block, ok := primaryOf(t, parseStatement(t, "(a: 1, a)").Body).(*ast.Block)
	if !ok {
		t.Fatalf("parenthesized statement did not parse as a block")
	}
	if len(block.Statement.Definitions) != 1 {
		t.Errorf("block has %d definitions, want 1", len(block.Statement.Definitions))
	}

	if _, ok := primaryOf(t, parseStatement(t, "() => 1").Body).(*ast.Function); !ok {
		t.Errorf("empty parameter list did not parse as a function")
	}
}

func TestStructLiteral(t *testing.T) {
	st, ok := primaryOf(t, parseStatement(t, `{a: 1, "b c": 2}`).Body).(*ast.Struct)
	if !ok {
		t.Fatalf("brace literal did not parse as a struct")
	}
	if len(st.Definitions) != 2 {
		t.Fatalf("got %d fields, want 2", len(st.Definitions))
	}
	if st.Definitions[1].Name != "b c" {
		t.Errorf("string field name = %q, want %q", st.Definitions[1].Name, "b c")
	}
}

func TestArrayLiteral(t *testing.T) {
	arr, ok := primaryOf(t, parseStatement(t, "[1, 2, 3]").Body).(*ast.Array)
	if !ok {
		t.Fatalf("bracket literal did not parse as an array")
	}
	if len(arr.Items) != 3 {
		t.Errorf("got %d items, want 3", len(arr.Items))
	}
}

func TestPostfixChain(t *testing.T) {
	stmt := parseStatement(t, "obj.field(1, 2)[0]")
	comp := stmt.Body.(*ast.Comparison)
	op := comp.Left.Left.Left
	if len(op.Rights) != 3 {
		t.Fatalf("got %d postfix operations, want 3", len(op.Rights))
	}
	access, ok := op.Rights[0].(*ast.Access)
	if !ok || access.Name != "field" {
		t.Errorf("first postfix is not .field")
	}
	call, ok := op.Rights[1].(*ast.Call)
	if !ok || len(call.Args) != 2 {
		t.Errorf("second postfix is not a 2-argument call")
	}
	if _, ok := op.Rights[2].(*ast.Index); !ok {
		t.Errorf("third postfix is not an index")
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"x: 1 x",           // missing comma after definition
		"if 1 then 2",      // missing else
		"(a: 1, a",         // unclosed block
		"{a 1}",            // missing colon
		"[1, 2",            // unclosed array
		"obj.",             // access without a name
		"1 +",              // dangling operator
		"(a, a) => a",      // duplicate parameter
		"x: 1, y: 2, x, y", // trailing tokens after body
	}
	for _, input := range inputs {
		parseError(t, input)
	}
}

func TestDuplicateParameterError(t *testing.T) {
	err := parseError(t, "(a, a) => a")
	if got := err.Error(); !strings.Contains(got, "duplicate parameter") || !strings.Contains(got, `"a"`) {
		t.Errorf("unexpected message: %s", got)
	}
}
