package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// ValueType identifies the variant stored in a Value.
type ValueType uint8

const (
	ValNumber ValueType = iota
	ValString
	ValBool
	ValList
	ValStruct
	ValClosure
	ValHost    // an evaluator.Object crossing the host bridge
	ValAddress // raw jump target; never observable to language-level code

	// Internal variants used by the call convention. They are created and
	// consumed by the machine and never appear in a finished result.
	ValCallRecord // return address + saved frame, pushed by OP_CALL
	ValThunk      // pre-forced value; a forcing CALL 0 unwraps it
)

// Value is a stack-allocated tagged union.
type Value struct {
	Type ValueType
	Num  float64
	Str  string
	Bool bool
	Obj  interface{} // *List, *Struct, *Closure, callRecord, Value (thunk) or evaluator.Object
}

// List is an ordered sequence. Every element is forceable: either a
// zero-arity Closure emitted for an array literal or a ValThunk wrapper put
// there when a host list was boxed. OP_INDEX pushes the element as-is and the
// forcing CALL 0 that follows it materializes the value.
type List struct {
	Elements []Value
}

// Struct maps field names to bind ids. Fields are labels, not values: access
// resolves the id to an Address and the forcing call executes the field's
// body, once per access, in the frame captured when the struct was built.
// The compiler's constant-pool entry has a nil Frame; OP_STRUCT stamps an
// instance with the frame current at construction.
type Struct struct {
	Fields map[string]int
	Frame  *Frame
}

// Closure is a function value: an entry address, a declared arity and the
// frame that was current when OP_FUNCTION executed. Free variables in the
// body resolve through that captured frame, not the caller's.
type Closure struct {
	Entry int
	Arity int
	Frame *Frame
}

// Frame is one argument frame. Frames are written once at call entry and
// read-only afterwards.
type Frame struct {
	args   []Value
	parent *Frame
}

// callRecord is what OP_CALL leaves on the operand stack below the callee's
// working values. OP_RETURN pops the result, pops the record, restores the
// frame and jumps to ret. A ret of -1 is the sentinel for a call that was
// started from Go code rather than from an instruction.
type callRecord struct {
	ret   int
	frame *Frame
}

// Constructors

func NumberVal(v float64) Value {
	return Value{Type: ValNumber, Num: v}
}

func StringVal(s string) Value {
	return Value{Type: ValString, Str: s}
}

func BoolVal(b bool) Value {
	return Value{Type: ValBool, Bool: b}
}

func ListVal(elements []Value) Value {
	return Value{Type: ValList, Obj: &List{Elements: elements}}
}

func StructVal(fields map[string]int) Value {
	return Value{Type: ValStruct, Obj: &Struct{Fields: fields}}
}

func ClosureVal(c *Closure) Value {
	return Value{Type: ValClosure, Obj: c}
}

func HostVal(obj evaluator.Object) Value {
	return Value{Type: ValHost, Obj: obj}
}

// AddressVal pairs a jump target with the frame its body must run against.
func AddressVal(target int, frame *Frame) Value {
	return Value{Type: ValAddress, Num: float64(target), Obj: frame}
}

func thunkVal(inner Value) Value {
	if inner.Type == ValThunk {
		return inner
	}
	return Value{Type: ValThunk, Obj: inner}
}

func recordVal(ret int, frame *Frame) Value {
	return Value{Type: ValCallRecord, Obj: callRecord{ret: ret, frame: frame}}
}

// Accessors

func (v Value) AsList() *List {
	return v.Obj.(*List)
}

func (v Value) AsStruct() *Struct {
	return v.Obj.(*Struct)
}

func (v Value) AsClosure() *Closure {
	return v.Obj.(*Closure)
}

func (v Value) AsHost() evaluator.Object {
	return v.Obj.(evaluator.Object)
}

func (v Value) AsAddress() int {
	return int(v.Num)
}

func (v Value) AddressFrame() *Frame {
	f, _ := v.Obj.(*Frame)
	return f
}

func (v Value) TypeName() string {
	switch v.Type {
	case ValNumber:
		return "NUMBER"
	case ValString:
		return "STRING"
	case ValBool:
		return "BOOLEAN"
	case ValList:
		return "LIST"
	case ValStruct:
		return "STRUCT"
	case ValClosure:
		return "CLOSURE"
	case ValHost:
		return "HOST"
	case ValAddress:
		return "ADDRESS"
	case ValCallRecord:
		return "CALL_RECORD"
	case ValThunk:
		return "THUNK"
	}
	return "UNKNOWN"
}

func (v Value) String() string {
	switch v.Type {
	case ValNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValString:
		return v.Str
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValList:
		var parts []string
		for _, el := range v.AsList().Elements {
			parts = append(parts, el.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValStruct:
		return fmt.Sprintf("struct{%d fields}", len(v.AsStruct().Fields))
	case ValClosure:
		c := v.AsClosure()
		return fmt.Sprintf("closure@%04d/%d", c.Entry, c.Arity)
	case ValHost:
		return v.AsHost().Inspect()
	case ValAddress:
		return fmt.Sprintf("addr@%04d", v.AsAddress())
	case ValCallRecord:
		rec := v.Obj.(callRecord)
		return fmt.Sprintf("ret@%04d", rec.ret)
	case ValThunk:
		return "thunk(" + v.Obj.(Value).String() + ")"
	}
	return "unknown"
}
