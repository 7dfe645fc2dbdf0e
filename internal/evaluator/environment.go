package evaluator

import "github.com/lazuli-lang/lazuli/internal/ast"

// Environment is a lexical frame: unevaluated binds, already-computed values
// (call arguments and host-provided globals), and the enclosing frame.
type Environment struct {
	binds  map[string]ast.Expression
	values map[string]Object
	outer  *Environment
}

func NewEnvironment() *Environment {
	return &Environment{
		binds:  make(map[string]ast.Expression),
		values: make(map[string]Object),
	}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) SetValue(name string, val Object) {
	e.values[name] = val
}

func (e *Environment) SetBind(name string, expr ast.Expression) {
	e.binds[name] = expr
}

// lookup walks outward and reports what it found and in which frame. Binds
// come back unevaluated together with their defining frame, so the caller
// evaluates them where they were declared (and on every reference).
func (e *Environment) lookup(name string) (Object, ast.Expression, *Environment, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.values[name]; ok {
			return v, nil, env, true
		}
		if b, ok := env.binds[name]; ok {
			return nil, b, env, true
		}
	}
	return nil, nil, nil, false
}
