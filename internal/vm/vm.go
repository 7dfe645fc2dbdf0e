package vm

import (
	"errors"
	"fmt"
	"math"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// Machine executes a Chunk. State is an operand stack, an instruction pointer
// and the current argument frame; there is no separate call stack. OP_CALL
// pushes a call record onto the operand stack and OP_RETURN pops it, so the
// call convention is built entirely from data-plane operations.
type Machine struct {
	chunk  *Chunk
	stack  []Value
	ip     int
	frame  *Frame
	labels map[int]int
	eval   *evaluator.Evaluator
}

func NewMachine(chunk *Chunk) *Machine {
	m := &Machine{
		chunk: chunk,
		frame: &Frame{},
		eval:  evaluator.New(),
	}
	m.scanLabels()
	return m
}

// scanLabels maps every bind id to the offset just past its marker. Bodies
// are not skipped: ids are globally unique, so a flat scan also collects
// labels nested inside function and label bodies.
func (m *Machine) scanLabels() {
	m.labels = make(map[int]int, 16)
	for pos, in := range m.chunk.Code {
		if in.Op == OP_LABEL {
			m.labels[in.A] = pos + 1
		}
	}
}

// Run executes the chunk from the top and returns the single resulting
// value. The operand stack must balance to exactly that one value.
func (m *Machine) Run() (Value, error) {
	m.ip = 0
	for m.ip < len(m.chunk.Code) {
		if err := m.step(); err != nil {
			return Value{}, err
		}
	}
	result, err := m.pop()
	if err != nil {
		return Value{}, err
	}
	if len(m.stack) != 0 {
		return Value{}, m.fault(FaultStackUnderflow, "unbalanced stack: %d values left", len(m.stack))
	}
	return result, nil
}

// RunToObject runs the chunk and materializes the result for the host:
// thunks forced, structs turned into records, closures wrapped as callables.
func (m *Machine) RunToObject() (evaluator.Object, error) {
	result, err := m.Run()
	if err != nil {
		return nil, err
	}
	return m.materialize(result)
}

func (m *Machine) step() error {
	pc := m.ip
	in := m.chunk.Code[pc]

	switch in.Op {
	case OP_CONST:
		if in.A < 0 || in.A >= len(m.chunk.Constants) {
			return m.fault(FaultStackUnderflow, "invalid constant index %d", in.A)
		}
		m.push(m.chunk.Constants[in.A])
		m.ip++

	case OP_LOAD:
		f := m.frame
		for i := 0; i < in.B; i++ {
			if f == nil {
				break
			}
			f = f.parent
		}
		if f == nil || in.A >= len(f.args) {
			return m.fault(FaultStackUnderflow, "no argument slot %d at depth %d", in.A, in.B)
		}
		m.push(f.args[in.A])
		m.ip++

	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		b, err := m.pop()
		if err != nil {
			return err
		}
		a, err := m.pop()
		if err != nil {
			return err
		}
		if a.Type != ValNumber || b.Type != ValNumber {
			return m.fault(FaultTypeMismatch, "%s operands are %s and %s, not NUMBER",
				in.Op, a.TypeName(), b.TypeName())
		}
		var r float64
		switch in.Op {
		case OP_ADD:
			r = a.Num + b.Num
		case OP_SUB:
			r = a.Num - b.Num
		case OP_MUL:
			r = a.Num * b.Num
		case OP_DIV:
			// IEEE-754: division by zero yields Inf/NaN, never a fault.
			r = a.Num / b.Num
		case OP_MOD:
			r = math.Mod(a.Num, b.Num)
		}
		m.push(NumberVal(r))
		m.ip++

	case OP_EQ, OP_NE:
		b, err := m.pop()
		if err != nil {
			return err
		}
		a, err := m.pop()
		if err != nil {
			return err
		}
		eq, err := m.valuesEqual(a, b)
		if err != nil {
			return err
		}
		if in.Op == OP_NE {
			eq = !eq
		}
		m.push(BoolVal(eq))
		m.ip++

	case OP_LABEL:
		// Straight-line flow never executes a label body.
		m.ip += in.B + 1

	case OP_LABEL_ADDR:
		target, ok := m.labels[in.A]
		if !ok {
			return m.fault(FaultUnresolvedLabel, "no label with id %d", in.A)
		}
		f, err := m.frameAt(in.B)
		if err != nil {
			return err
		}
		m.push(AddressVal(target, f))
		m.ip++

	case OP_JUMP:
		m.ip += in.A

	case OP_JUMP_IF:
		cond, err := m.pop()
		if err != nil {
			return err
		}
		if cond.Type != ValBool {
			return m.fault(FaultTypeMismatch, "condition is %s, not BOOLEAN", cond.TypeName())
		}
		if cond.Bool {
			m.ip += in.A
		} else {
			m.ip++
		}

	case OP_CALL:
		return m.execCall(in.A)

	case OP_RETURN:
		result, err := m.pop()
		if err != nil {
			return err
		}
		rec, err := m.pop()
		if err != nil {
			return err
		}
		if rec.Type != ValCallRecord {
			return m.fault(FaultStackUnderflow, "return found %s instead of a call record", rec.TypeName())
		}
		r := rec.Obj.(callRecord)
		m.frame = r.frame
		m.ip = r.ret
		m.push(result)

	case OP_FUNCTION:
		m.push(ClosureVal(&Closure{Entry: pc + 1, Arity: in.B, Frame: m.frame}))
		m.ip += in.A + 1

	case OP_ARRAY:
		elements := make([]Value, in.A)
		for i := in.A - 1; i >= 0; i-- {
			v, err := m.pop()
			if err != nil {
				return err
			}
			elements[i] = v
		}
		m.push(ListVal(elements))
		m.ip++

	case OP_STRUCT:
		if in.A < 0 || in.A >= len(m.chunk.Constants) {
			return m.fault(FaultStackUnderflow, "invalid constant index %d", in.A)
		}
		// Stamp an instance bound to the constructing frame; field bodies
		// load arguments against it no matter where the access happens.
		template := m.chunk.Constants[in.A].AsStruct()
		m.push(Value{Type: ValStruct, Obj: &Struct{Fields: template.Fields, Frame: m.frame}})
		m.ip++

	case OP_ACCESS:
		name, err := m.pop()
		if err != nil {
			return err
		}
		base, err := m.pop()
		if err != nil {
			return err
		}
		if name.Type != ValString {
			return m.fault(FaultTypeMismatch, "field name is %s, not STRING", name.TypeName())
		}
		v, err := m.accessValue(base, name.Str)
		if err != nil {
			return err
		}
		m.push(v)
		m.ip++

	case OP_INDEX:
		key, err := m.pop()
		if err != nil {
			return err
		}
		base, err := m.pop()
		if err != nil {
			return err
		}
		v, err := m.indexValue(base, key)
		if err != nil {
			return err
		}
		m.push(v)
		m.ip++

	default:
		return m.fault(FaultTypeMismatch, "unknown opcode %d", in.Op)
	}
	return nil
}

// execCall pops n arguments then the callee and dispatches on the callee's
// variant. Addresses and thunks only accept a forcing call of arity 0.
func (m *Machine) execCall(n int) error {
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := m.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}
	callee, err := m.pop()
	if err != nil {
		return err
	}

	switch callee.Type {
	case ValAddress:
		if n != 0 {
			return m.fault(FaultArityMismatch, "bind address takes no arguments, got %d", n)
		}
		// A bind body runs against the frame the address carries, which is
		// the defining frame context; the call record restores the caller's.
		m.push(recordVal(m.ip+1, m.frame))
		m.frame = callee.AddressFrame()
		m.ip = callee.AsAddress()
		return nil

	case ValClosure:
		c := callee.AsClosure()
		if n != c.Arity {
			return m.fault(FaultArityMismatch, "function takes %d arguments, got %d", c.Arity, n)
		}
		m.push(recordVal(m.ip+1, m.frame))
		m.frame = &Frame{args: args, parent: c.Frame}
		m.ip = c.Entry
		return nil

	case ValThunk:
		if n != 0 {
			return m.fault(FaultTypeMismatch, "%s is not callable", callee.Obj.(Value).TypeName())
		}
		m.push(callee.Obj.(Value))
		m.ip++
		return nil

	case ValHost:
		margs := make([]evaluator.Object, n)
		for i, a := range args {
			obj, err := m.materialize(a)
			if err != nil {
				return err
			}
			margs[i] = obj
		}
		result, err := m.eval.Apply(callee.AsHost(), margs)
		if err != nil {
			return m.hostFault(err)
		}
		m.push(box(result))
		m.ip++
		return nil

	default:
		return m.fault(FaultTypeMismatch, "%s is not callable", callee.TypeName())
	}
}

// accessValue resolves `.name` per variant. Struct fields come back as raw
// label addresses; everything else is wrapped as a pre-forced thunk so the
// forcing CALL 0 that always follows OP_ACCESS stays balanced.
func (m *Machine) accessValue(base Value, name string) (Value, error) {
	switch base.Type {
	case ValStruct:
		st := base.AsStruct()
		id, ok := st.Fields[name]
		if !ok {
			return Value{}, m.fault(FaultTypeMismatch, "struct has no field %q", name)
		}
		target, ok := m.labels[id]
		if !ok {
			return Value{}, m.fault(FaultUnresolvedLabel, "no label with id %d for field %q", id, name)
		}
		return AddressVal(target, st.Frame), nil

	case ValString:
		method, err := evaluator.StringMethod(base.Str, name)
		if err != nil {
			return Value{}, m.fault(FaultTypeMismatch, "%v", err)
		}
		return thunkVal(HostVal(method)), nil

	case ValList:
		list, err := m.materialize(base)
		if err != nil {
			return Value{}, err
		}
		method, err := evaluator.ListMethod(list.(*evaluator.List), name)
		if err != nil {
			return Value{}, m.fault(FaultTypeMismatch, "%v", err)
		}
		return thunkVal(HostVal(method)), nil

	case ValHost:
		switch obj := base.AsHost().(type) {
		case *evaluator.Record:
			field, ok := obj.Fields[name]
			if !ok {
				return Value{}, m.fault(FaultTypeMismatch, "record has no field %q", name)
			}
			return thunkVal(box(field)), nil
		case *evaluator.Module:
			member, ok := obj.Members[name]
			if !ok {
				return Value{}, m.fault(FaultTypeMismatch, "module %s has no member %q", obj.Name, name)
			}
			return thunkVal(box(member)), nil
		default:
			return Value{}, m.fault(FaultTypeMismatch, "%s has no properties", obj.Type())
		}

	default:
		return Value{}, m.fault(FaultTypeMismatch, "%s has no properties", base.TypeName())
	}
}

func (m *Machine) indexValue(base Value, key Value) (Value, error) {
	switch key.Type {
	case ValNumber:
		if base.Type != ValList {
			return Value{}, m.fault(FaultTypeMismatch, "cannot index %s with a number", base.TypeName())
		}
		elements := base.AsList().Elements
		i := int(key.Num)
		if float64(i) != key.Num {
			return Value{}, m.fault(FaultTypeMismatch, "index %g is not an integer", key.Num)
		}
		if i < 0 || i >= len(elements) {
			return Value{}, m.fault(FaultTypeMismatch, "index %d out of range (length %d)", i, len(elements))
		}
		// List elements are already forceable thunks.
		return elements[i], nil
	case ValString:
		return m.accessValue(base, key.Str)
	default:
		return Value{}, m.fault(FaultTypeMismatch, "index must be a number or string, got %s", key.TypeName())
	}
}

// runAt executes a body starting at entry until its matching return, using a
// sentinel call record so OP_RETURN hands control back to Go code instead of
// an instruction. Used to force thunks and struct fields from the host side.
func (m *Machine) runAt(entry int, frame *Frame) (Value, error) {
	savedIP := m.ip
	savedFrame := m.frame
	m.push(recordVal(-1, m.frame))
	m.frame = frame
	m.ip = entry
	for m.ip != -1 {
		if m.ip < 0 || m.ip >= len(m.chunk.Code) {
			return Value{}, m.fault(FaultUnresolvedLabel, "execution ran past the chunk at %04d", m.ip)
		}
		if err := m.step(); err != nil {
			return Value{}, err
		}
	}
	result, err := m.pop()
	if err != nil {
		return Value{}, err
	}
	m.ip = savedIP
	m.frame = savedFrame
	return result, nil
}

// force evaluates a forceable value: thunks unwrap, addresses and zero-arity
// closures run their body. Anything else is already a value.
func (m *Machine) force(v Value) (Value, error) {
	switch v.Type {
	case ValThunk:
		return v.Obj.(Value), nil
	case ValAddress:
		return m.runAt(v.AsAddress(), v.AddressFrame())
	case ValClosure:
		c := v.AsClosure()
		if c.Arity == 0 {
			return m.runAt(c.Entry, &Frame{parent: c.Frame})
		}
		return v, nil
	default:
		return v, nil
	}
}

func (m *Machine) valuesEqual(a, b Value) (bool, error) {
	a, err := m.force(a)
	if err != nil {
		return false, err
	}
	b, err = m.force(b)
	if err != nil {
		return false, err
	}
	if a.Type != b.Type {
		return false, nil
	}
	switch a.Type {
	case ValNumber:
		return a.Num == b.Num, nil
	case ValString:
		return a.Str == b.Str, nil
	case ValBool:
		return a.Bool == b.Bool, nil
	case ValList:
		as, bs := a.AsList().Elements, b.AsList().Elements
		if len(as) != len(bs) {
			return false, nil
		}
		for i := range as {
			eq, err := m.valuesEqual(as[i], bs[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case ValStruct:
		return a.AsStruct() == b.AsStruct(), nil
	case ValClosure:
		return a.AsClosure() == b.AsClosure(), nil
	case ValHost:
		return evaluator.ObjectsEqual(a.AsHost(), b.AsHost()), nil
	case ValAddress:
		return a.AsAddress() == b.AsAddress(), nil
	}
	return false, nil
}

// materialize converts a machine value into the shared host object model,
// forcing whatever laziness it still carries.
func (m *Machine) materialize(v Value) (evaluator.Object, error) {
	switch v.Type {
	case ValNumber:
		return &evaluator.Number{Value: v.Num}, nil
	case ValString:
		return &evaluator.String{Value: v.Str}, nil
	case ValBool:
		return &evaluator.Boolean{Value: v.Bool}, nil

	case ValList:
		src := v.AsList().Elements
		elements := make([]evaluator.Object, len(src))
		for i, el := range src {
			forced, err := m.force(el)
			if err != nil {
				return nil, err
			}
			obj, err := m.materialize(forced)
			if err != nil {
				return nil, err
			}
			elements[i] = obj
		}
		return &evaluator.List{Elements: elements}, nil

	case ValStruct:
		st := v.AsStruct()
		fields := make(map[string]evaluator.Object, len(st.Fields))
		for name, id := range st.Fields {
			target, ok := m.labels[id]
			if !ok {
				return nil, m.fault(FaultUnresolvedLabel, "no label with id %d for field %q", id, name)
			}
			fv, err := m.runAt(target, st.Frame)
			if err != nil {
				return nil, err
			}
			obj, err := m.materialize(fv)
			if err != nil {
				return nil, err
			}
			fields[name] = obj
		}
		return &evaluator.Record{Fields: fields}, nil

	case ValClosure:
		// Wrap the closure so the host can call back into this machine.
		c := v.AsClosure()
		return &evaluator.Builtin{Name: "closure", Fn: func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != c.Arity {
				return nil, &evaluator.RuntimeError{Kind: evaluator.ErrArityMismatch,
					Message: fmt.Sprintf("function takes %d arguments, got %d", c.Arity, len(args))}
			}
			boxed := make([]Value, len(args))
			for i, a := range args {
				boxed[i] = box(a)
			}
			result, err := m.runAt(c.Entry, &Frame{args: boxed, parent: c.Frame})
			if err != nil {
				return nil, err
			}
			return m.materialize(result)
		}}, nil

	case ValHost:
		return v.AsHost(), nil

	case ValThunk, ValAddress:
		forced, err := m.force(v)
		if err != nil {
			return nil, err
		}
		return m.materialize(forced)

	default:
		return nil, m.fault(FaultTypeMismatch, "cannot materialize %s", v.TypeName())
	}
}

// box converts a host object into a machine value. Host lists become machine
// lists whose elements are pre-forced thunks, preserving the invariant that
// every list element survives a forcing CALL 0.
func box(obj evaluator.Object) Value {
	switch v := obj.(type) {
	case *evaluator.Number:
		return NumberVal(v.Value)
	case *evaluator.String:
		return StringVal(v.Value)
	case *evaluator.Boolean:
		return BoolVal(v.Value)
	case *evaluator.List:
		elements := make([]Value, len(v.Elements))
		for i, el := range v.Elements {
			elements[i] = thunkVal(box(el))
		}
		return ListVal(elements)
	default:
		return HostVal(obj)
	}
}

// frameAt walks n parents up from the current frame.
func (m *Machine) frameAt(n int) (*Frame, error) {
	f := m.frame
	for i := 0; i < n; i++ {
		if f == nil {
			break
		}
		f = f.parent
	}
	if f == nil {
		return nil, m.fault(FaultStackUnderflow, "no frame at depth %d", n)
	}
	return f, nil
}

func (m *Machine) push(v Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() (Value, error) {
	if len(m.stack) == 0 {
		return Value{}, m.fault(FaultStackUnderflow, "pop on an empty stack")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *Machine) fault(kind FaultKind, format string, args ...interface{}) *Fault {
	op := Opcode(255)
	pc := m.ip
	if pc >= 0 && pc < len(m.chunk.Code) {
		op = m.chunk.Code[pc].Op
	}
	return &Fault{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		PC:      pc,
		Op:      op,
		Depth:   len(m.stack),
	}
}

// hostFault maps a host-side runtime error onto the machine's fault
// taxonomy; anything unrecognized is a bridge failure.
func (m *Machine) hostFault(err error) *Fault {
	var rt *evaluator.RuntimeError
	if errors.As(err, &rt) {
		switch rt.Kind {
		case evaluator.ErrTypeMismatch:
			return m.fault(FaultTypeMismatch, "%s", rt.Message)
		case evaluator.ErrArityMismatch:
			return m.fault(FaultArityMismatch, "%s", rt.Message)
		}
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return m.fault(FaultHostBridge, "%v", err)
}
