package vm

import (
	"reflect"
	"strings"
	"testing"
)

// compileBody compiles input with no globals and strips the import prelude,
// leaving just the program's own instructions.
func compileBody(t *testing.T, input string) []Instr {
	t.Helper()
	chunk, err := Compile(parse(t, input), nil)
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	// Prelude with no globals is a single import label: LABEL, CONST, RETURN.
	if len(chunk.Code) < 3 || chunk.Code[0].Op != OP_LABEL {
		t.Fatalf("missing import prelude in %v", chunk.Code)
	}
	return chunk.Code[3:]
}

func testOpcodes(t *testing.T, code []Instr, expected []Opcode) {
	t.Helper()
	got := make([]Opcode, len(code))
	for i, in := range code {
		got[i] = in.Op
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("opcode sequence mismatch.\ngot=  %v\nwant= %v", got, expected)
	}
}

func TestCompileArithmetic(t *testing.T) {
	testOpcodes(t, compileBody(t, "1 + 2 * 3"), []Opcode{
		OP_CONST, OP_CONST, OP_CONST, OP_MUL, OP_ADD,
	})
}

func TestCompileConditionalLayout(t *testing.T) {
	code := compileBody(t, "if 1 == 2 then 3 else 4")
	testOpcodes(t, code, []Opcode{
		OP_CONST, OP_CONST, OP_EQ, // condition
		OP_JUMP_IF, // to consequent when true
		OP_CONST,   // alternate
		OP_JUMP,    // past consequent
		OP_CONST,   // consequent
	})

	// Alternate is 1 instruction: JUMP_IF skips it plus the closing JUMP.
	if code[3].A != 3 {
		t.Errorf("JUMP_IF offset = %d, want 3", code[3].A)
	}
	// Consequent is 1 instruction: JUMP skips it.
	if code[5].A != 2 {
		t.Errorf("JUMP offset = %d, want 2", code[5].A)
	}
}

func TestCompileBlockEmitsLabels(t *testing.T) {
	code := compileBody(t, "x: 1, x")
	testOpcodes(t, code, []Opcode{
		OP_LABEL, OP_CONST, OP_RETURN, // x's body
		OP_LABEL_ADDR, OP_CALL, // reference forces the bind
	})
	if code[0].B != 2 {
		t.Errorf("label length = %d, want 2", code[0].B)
	}
	if code[3].A != code[0].A {
		t.Errorf("reference targets id %d, label declares id %d", code[3].A, code[0].A)
	}
	if code[4].A != 0 {
		t.Errorf("bind force has arity %d, want 0", code[4].A)
	}
}

func TestCompileAccessForcesResult(t *testing.T) {
	testOpcodes(t, compileBody(t, "{a: 1}.a"), []Opcode{
		OP_LABEL, OP_CONST, OP_RETURN, // field a's body
		OP_STRUCT,
		OP_CONST, OP_ACCESS, OP_CALL, // .a then forcing call
	})
}

func TestCompileIndexForcesResult(t *testing.T) {
	testOpcodes(t, compileBody(t, "[5][0]"), []Opcode{
		OP_FUNCTION, OP_CONST, OP_RETURN, // element thunk
		OP_ARRAY,
		OP_CONST, OP_INDEX, OP_CALL, // [0] then forcing call
	})
}

func TestCompileFunctionSkipsBody(t *testing.T) {
	code := compileBody(t, "(a) => a + 1")
	testOpcodes(t, code, []Opcode{
		OP_FUNCTION, OP_LOAD, OP_CONST, OP_ADD, OP_RETURN,
	})
	if code[0].A != 4 {
		t.Errorf("body length = %d, want 4", code[0].A)
	}
	if code[0].B != 1 {
		t.Errorf("arity = %d, want 1", code[0].B)
	}
	if code[1].A != 0 || code[1].B != 0 {
		t.Errorf("LOAD = (%d, %d), want (0, 0)", code[1].A, code[1].B)
	}
}

func TestCompileFreeVariableDepth(t *testing.T) {
	code := compileBody(t, "(a) => (b) => a + b")
	// Inner body loads a from one frame out, b locally.
	var loads []Instr
	for _, in := range code {
		if in.Op == OP_LOAD {
			loads = append(loads, in)
		}
	}
	if len(loads) != 2 {
		t.Fatalf("got %d LOADs, want 2", len(loads))
	}
	if loads[0].A != 0 || loads[0].B != 1 {
		t.Errorf("outer arg load = (%d, %d), want (0, 1)", loads[0].A, loads[0].B)
	}
	if loads[1].A != 0 || loads[1].B != 0 {
		t.Errorf("local arg load = (%d, %d), want (0, 0)", loads[1].A, loads[1].B)
	}
}

func TestCompileBlockInsideFunctionIsTransparent(t *testing.T) {
	// The block around a's use adds no runtime frame, so depth stays 0.
	code := compileBody(t, "(a) => (x: 1, a + x)")
	for _, in := range code {
		if in.Op == OP_LOAD && in.B != 0 {
			t.Errorf("LOAD depth = %d, want 0 through a transparent block", in.B)
		}
	}
}

func TestCompileDeterminism(t *testing.T) {
	input := "x: 1, f: (a) => if a == x then {v: a} else {v: x}, f(2).v + [1, 2][0]"
	root := parse(t, input)
	first, err := Compile(root, nil)
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	second, err := Compile(root, nil)
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	if !reflect.DeepEqual(first.Code, second.Code) {
		t.Errorf("same AST compiled to different code")
	}
}

func TestCompileUnboundIdentifierPosition(t *testing.T) {
	_, err := Compile(parse(t, "1 +\n  missing"), nil)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error does not name the identifier: %s", err)
	}
	if !strings.Contains(err.Error(), "2:") {
		t.Errorf("error does not carry the source line: %s", err)
	}
}

func TestDisassembleListing(t *testing.T) {
	chunk, err := Compile(parse(t, "x: 1, x + 2"), nil)
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	listing := Disassemble(chunk, "test")
	for _, want := range []string{"== test ==", "0000", "LABEL", "LABEL_ADDR", "CALL", "ADD"} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}
