package evaluator

import (
	"math"

	"github.com/lazuli-lang/lazuli/internal/ast"
)

// Evaluator walks the AST directly. Definitions are call-by-need: a bind is
// evaluated each time it is referenced, never when it is declared, and the
// result is not cached.
type Evaluator struct{}

func New() *Evaluator {
	return &Evaluator{}
}

// Eval runs a statement: its definitions become binds of a fresh frame and
// the trailing expression is evaluated inside it.
func (e *Evaluator) Eval(stmt *ast.Statement, env *Environment) (Object, error) {
	child := NewEnclosedEnvironment(env)
	for _, def := range stmt.Definitions {
		child.SetBind(def.Name, def.Body)
	}
	return e.evalExpression(stmt.Body, child)
}

func (e *Evaluator) evalExpression(expr ast.Expression, env *Environment) (Object, error) {
	switch v := expr.(type) {
	case *ast.Comparison:
		return e.evalComparison(v, env)
	case *ast.If:
		cond, err := e.evalExpression(v.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*Boolean)
		if !ok {
			return nil, newError(ErrTypeMismatch, "if condition is %s, not BOOLEAN", cond.Type())
		}
		if b.Value {
			return e.evalExpression(v.Cons, env)
		}
		return e.evalExpression(v.Alt, env)
	default:
		return nil, newError(ErrTypeMismatch, "unknown expression node %T", expr)
	}
}

func (e *Evaluator) evalComparison(c *ast.Comparison, env *Environment) (Object, error) {
	base, err := e.evalAdditive(&c.Left, env)
	if err != nil {
		return nil, err
	}
	for i := range c.Rights {
		right, err := e.evalAdditive(&c.Rights[i].Value, env)
		if err != nil {
			return nil, err
		}
		eq := ObjectsEqual(base, right)
		if c.Rights[i].Op == ast.CompNotEqual {
			eq = !eq
		}
		base = &Boolean{Value: eq}
	}
	return base, nil
}

func (e *Evaluator) evalAdditive(a *ast.Additive, env *Environment) (Object, error) {
	left, err := e.evalMultitive(&a.Left, env)
	if err != nil {
		return nil, err
	}
	if len(a.Rights) == 0 {
		return left, nil
	}
	base, ok := left.(*Number)
	if !ok {
		return nil, newError(ErrTypeMismatch, "left operand of %q is %s, not NUMBER", a.Rights[0].Op, left.Type())
	}
	acc := base.Value
	for i := range a.Rights {
		right, err := e.evalMultitive(&a.Rights[i].Value, env)
		if err != nil {
			return nil, err
		}
		n, ok := right.(*Number)
		if !ok {
			return nil, newError(ErrTypeMismatch, "right operand of %q is %s, not NUMBER", a.Rights[i].Op, right.Type())
		}
		switch a.Rights[i].Op {
		case ast.AddAdd:
			acc += n.Value
		case ast.AddSub:
			acc -= n.Value
		}
	}
	return &Number{Value: acc}, nil
}

func (e *Evaluator) evalMultitive(m *ast.Multitive, env *Environment) (Object, error) {
	left, err := e.evalOperation(&m.Left, env)
	if err != nil {
		return nil, err
	}
	if len(m.Rights) == 0 {
		return left, nil
	}
	base, ok := left.(*Number)
	if !ok {
		return nil, newError(ErrTypeMismatch, "left operand of %q is %s, not NUMBER", m.Rights[0].Op, left.Type())
	}
	acc := base.Value
	for i := range m.Rights {
		right, err := e.evalOperation(&m.Rights[i].Value, env)
		if err != nil {
			return nil, err
		}
		n, ok := right.(*Number)
		if !ok {
			return nil, newError(ErrTypeMismatch, "right operand of %q is %s, not NUMBER", m.Rights[i].Op, right.Type())
		}
		switch m.Rights[i].Op {
		case ast.MulMul:
			acc *= n.Value
		case ast.MulDiv:
			// IEEE-754: division by zero yields Inf/NaN, never a fault.
			acc /= n.Value
		case ast.MulSurplus:
			acc = math.Mod(acc, n.Value)
		}
	}
	return &Number{Value: acc}, nil
}

func (e *Evaluator) evalOperation(op *ast.Operation, env *Environment) (Object, error) {
	base, err := e.evalPrimary(op.Left, env)
	if err != nil {
		return nil, err
	}
	for _, right := range op.Rights {
		switch p := right.(type) {
		case *ast.Access:
			base, err = e.getProp(base, p.Name)
		case *ast.Index:
			var key Object
			key, err = e.evalExpression(p.Arg, env)
			if err != nil {
				return nil, err
			}
			base, err = e.index(base, key)
		case *ast.Call:
			args := make([]Object, len(p.Args))
			for i, a := range p.Args {
				args[i], err = e.evalExpression(a, env)
				if err != nil {
					return nil, err
				}
			}
			base, err = e.Apply(base, args)
		}
		if err != nil {
			return nil, err
		}
	}
	return base, nil
}

func (e *Evaluator) evalPrimary(p ast.Primary, env *Environment) (Object, error) {
	switch v := p.(type) {
	case *ast.Number:
		return &Number{Value: v.Value}, nil
	case *ast.String:
		return &String{Value: v.Value}, nil
	case *ast.Variable:
		return e.resolve(v.Name, env)
	case *ast.Block:
		return e.Eval(v.Statement, env)
	case *ast.Function:
		return &Function{Params: v.Params, Body: v.Body, Env: env}, nil
	case *ast.Struct:
		return &Struct{Definitions: v.Definitions, Env: env}, nil
	case *ast.Array:
		elements := make([]Object, len(v.Items))
		for i, item := range v.Items {
			obj, err := e.evalExpression(item, env)
			if err != nil {
				return nil, err
			}
			elements[i] = obj
		}
		return &List{Elements: elements}, nil
	default:
		return nil, newError(ErrTypeMismatch, "unknown primary node %T", p)
	}
}

func (e *Evaluator) resolve(name string, env *Environment) (Object, error) {
	val, bind, defEnv, ok := env.lookup(name)
	if !ok {
		return nil, newError(ErrUnbound, "could not find bind by %q", name)
	}
	if val != nil {
		return val, nil
	}
	// Re-evaluate the bind in its defining frame on every reference.
	return e.evalExpression(bind, defEnv)
}

func (e *Evaluator) getProp(base Object, name string) (Object, error) {
	switch v := base.(type) {
	case *Struct:
		// Only the struct's own fields are addressable through it; the
		// field bodies themselves still see the enclosing scope.
		if !v.HasField(name) {
			return nil, newError(ErrTypeMismatch, "struct has no field %q", name)
		}
		child := NewEnclosedEnvironment(v.Env)
		for _, def := range v.Definitions {
			child.SetBind(def.Name, def.Body)
		}
		return e.resolve(name, child)
	case *Record:
		if f, ok := v.Fields[name]; ok {
			return f, nil
		}
		return nil, newError(ErrTypeMismatch, "record has no field %q", name)
	case *Module:
		if m, ok := v.Members[name]; ok {
			return m, nil
		}
		return nil, newError(ErrTypeMismatch, "module %s has no member %q", v.Name, name)
	case *String:
		return stringMethod(v, name)
	case *List:
		return listMethod(v, name)
	default:
		return nil, newError(ErrTypeMismatch, "%s has no properties", base.Type())
	}
}

func (e *Evaluator) index(base Object, key Object) (Object, error) {
	switch k := key.(type) {
	case *Number:
		list, ok := base.(*List)
		if !ok {
			return nil, newError(ErrTypeMismatch, "cannot index %s with a number", base.Type())
		}
		i := int(k.Value)
		if float64(i) != k.Value {
			return nil, newError(ErrTypeMismatch, "index %g is not an integer", k.Value)
		}
		if i < 0 || i >= len(list.Elements) {
			return nil, newError(ErrTypeMismatch, "index %d out of range (length %d)", i, len(list.Elements))
		}
		return list.Elements[i], nil
	case *String:
		return e.getProp(base, k.Value)
	default:
		return nil, newError(ErrTypeMismatch, "index must be a number or string, got %s", key.Type())
	}
}

// Apply calls a function or host callable with already-evaluated arguments.
func (e *Evaluator) Apply(callee Object, args []Object) (Object, error) {
	switch fn := callee.(type) {
	case *Function:
		if len(args) != len(fn.Params) {
			return nil, newError(ErrArityMismatch, "function takes %d arguments, got %d", len(fn.Params), len(args))
		}
		child := NewEnclosedEnvironment(fn.Env)
		for i, name := range fn.Params {
			child.SetValue(name, args[i])
		}
		return e.evalExpression(fn.Body, child)
	case *Builtin:
		materialized := make([]Object, len(args))
		for i, a := range args {
			m, err := e.Materialize(a)
			if err != nil {
				return nil, err
			}
			materialized[i] = m
		}
		result, err := fn.Fn(materialized)
		if err != nil {
			return nil, newError(ErrHostBridge, "%s: %v", fn.Name, err)
		}
		return result, nil
	default:
		return nil, newError(ErrTypeMismatch, "%s is not callable", callee.Type())
	}
}

// Materialize forces lazy structure before it crosses the host boundary:
// host callables receive a materialized argument list.
func (e *Evaluator) Materialize(obj Object) (Object, error) {
	switch v := obj.(type) {
	case *Struct:
		fields := make(map[string]Object, len(v.Definitions))
		child := NewEnclosedEnvironment(v.Env)
		for _, def := range v.Definitions {
			child.SetBind(def.Name, def.Body)
		}
		for _, def := range v.Definitions {
			val, err := e.resolve(def.Name, child)
			if err != nil {
				return nil, err
			}
			val, err = e.Materialize(val)
			if err != nil {
				return nil, err
			}
			fields[def.Name] = val
		}
		return &Record{Fields: fields}, nil
	case *List:
		elements := make([]Object, len(v.Elements))
		for i, el := range v.Elements {
			m, err := e.Materialize(el)
			if err != nil {
				return nil, err
			}
			elements[i] = m
		}
		return &List{Elements: elements}, nil
	default:
		return obj, nil
	}
}
