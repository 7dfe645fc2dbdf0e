package vm

import "fmt"

// FaultKind classifies an unrecoverable runtime fault. The language has no
// catch construct, so any fault aborts the whole run, including runs nested
// under a module import.
type FaultKind string

const (
	FaultTypeMismatch    FaultKind = "TypeMismatch"
	FaultArityMismatch   FaultKind = "ArityMismatch"
	FaultStackUnderflow  FaultKind = "StackUnderflow"
	FaultUnresolvedLabel FaultKind = "UnresolvedLabel"
	FaultHostBridge      FaultKind = "HostBridgeFailure"
)

// Fault carries enough context to debug the aborted run: the offending
// instruction position and opcode and the operand stack depth at the time.
type Fault struct {
	Kind    FaultKind
	Message string
	PC      int
	Op      Opcode
	Depth   int
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at %04d (%s, stack %d): %s", f.Kind, f.PC, f.Op, f.Depth, f.Message)
}
