package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a chunk.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("== %s ==\n", name))
	for offset, in := range chunk.Code {
		disassembleInstruction(&sb, chunk, offset, in)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int, in Instr) {
	sb.WriteString(fmt.Sprintf("%04d %-12s", offset, in.Op))

	switch in.Op {
	case OP_CONST, OP_STRUCT:
		if in.A >= 0 && in.A < len(chunk.Constants) {
			sb.WriteString(fmt.Sprintf(" %d (%s)", in.A, chunk.Constants[in.A].String()))
		} else {
			sb.WriteString(fmt.Sprintf(" %d (?)", in.A))
		}
	case OP_LOAD:
		sb.WriteString(fmt.Sprintf(" arg=%d depth=%d", in.A, in.B))
	case OP_LABEL:
		sb.WriteString(fmt.Sprintf(" id=%d len=%d", in.A, in.B))
	case OP_LABEL_ADDR:
		sb.WriteString(fmt.Sprintf(" id=%d depth=%d", in.A, in.B))
	case OP_JUMP, OP_JUMP_IF:
		sb.WriteString(fmt.Sprintf(" %+d -> %04d", in.A, offset+in.A))
	case OP_CALL:
		sb.WriteString(fmt.Sprintf(" arity=%d", in.A))
	case OP_FUNCTION:
		sb.WriteString(fmt.Sprintf(" len=%d arity=%d", in.A, in.B))
	case OP_ARRAY:
		sb.WriteString(fmt.Sprintf(" %d", in.A))
	}
	sb.WriteString("\n")
}
