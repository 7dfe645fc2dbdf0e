// Package vm implements the bytecode compiler and abstract stack machine for
// Lazuli. The machine has no native call stack: calls push a return record
// onto the same operand stack that holds ordinary values, and every lazily
// bound definition compiles to an addressable label that is re-executed on
// each reference.
package vm

// Opcode represents a single machine instruction.
type Opcode byte

const (
	// Constants and arguments
	OP_CONST Opcode = iota // A = constant pool index
	OP_LOAD                // A = argument index, B = frame depth

	// Arithmetic
	OP_ADD // +
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /
	OP_MOD // %

	// Comparison
	OP_EQ // ==
	OP_NE // !=

	// Labels and control flow
	OP_LABEL      // A = bind id, B = body length; skipped in straight-line flow
	OP_LABEL_ADDR // A = bind id, B = frame hops to the defining frame; push an Address
	OP_JUMP       // A = relative offset (ip += A)
	OP_JUMP_IF    // A = relative offset; pops a Boolean, jumps when true

	// Calls
	OP_CALL   // A = arity; pops args then callee
	OP_RETURN // pops result, pops call record, transfers control back

	// Construction
	OP_FUNCTION // A = body length, B = arity; push a Closure, skip the body
	OP_ARRAY    // A = element count; pops A thunks into a List
	OP_STRUCT   // A = constant pool index of the field map; instance captures the frame

	// Postfix
	OP_ACCESS // pops field name, pops base
	OP_INDEX  // pops key, pops base
)

// OpcodeNames maps opcodes to their mnemonic for disassembly and faults.
var OpcodeNames = map[Opcode]string{
	OP_CONST:      "CONST",
	OP_LOAD:       "LOAD",
	OP_ADD:        "ADD",
	OP_SUB:        "SUB",
	OP_MUL:        "MUL",
	OP_DIV:        "DIV",
	OP_MOD:        "MOD",
	OP_EQ:         "EQ",
	OP_NE:         "NE",
	OP_LABEL:      "LABEL",
	OP_LABEL_ADDR: "LABEL_ADDR",
	OP_JUMP:       "JUMP",
	OP_JUMP_IF:    "JUMP_IF",
	OP_CALL:       "CALL",
	OP_RETURN:     "RETURN",
	OP_FUNCTION:   "FUNCTION",
	OP_ARRAY:      "ARRAY",
	OP_STRUCT:     "STRUCT",
	OP_ACCESS:     "ACCESS",
	OP_INDEX:      "INDEX",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Instr is one decoded instruction. Operands are kept structured rather than
// packed into a byte stream: jump offsets and label lengths are computed from
// final emitted lengths, never patched, so there is nothing to gain from a
// flat encoding in-process.
type Instr struct {
	Op Opcode
	A  int
	B  int
}
