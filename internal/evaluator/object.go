// Package evaluator implements the tree-walking execution strategy and owns
// the object model both backends exchange at their boundaries.
package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lazuli-lang/lazuli/internal/ast"
)

type ObjectType string

const (
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	LIST_OBJ     = "LIST"
	STRUCT_OBJ   = "STRUCT"
	RECORD_OBJ   = "RECORD"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	MODULE_OBJ   = "MODULE"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return fmt.Sprintf("%q", s.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Struct is the tree-walk representation of a struct literal: its fields stay
// unevaluated and are re-evaluated on every access, in a child of the
// environment captured at construction.
type Struct struct {
	Definitions []ast.Definition
	Env         *Environment
}

func (s *Struct) Type() ObjectType { return STRUCT_OBJ }
func (s *Struct) Inspect() string {
	names := make([]string, len(s.Definitions))
	for i, d := range s.Definitions {
		names[i] = d.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (s *Struct) HasField(name string) bool {
	for _, d := range s.Definitions {
		if d.Name == name {
			return true
		}
	}
	return false
}

func (s *Struct) FieldNames() []string {
	names := make([]string, len(s.Definitions))
	for i, d := range s.Definitions {
		names[i] = d.Name
	}
	return names
}

// Record is a materialized field map: what a struct looks like once its
// fields have been forced, and the shape host callables produce and consume.
type Record struct {
	Fields map[string]Object
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string {
	names := r.FieldNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, r.Fields[n].Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type Function struct {
	Params []string
	Body   ast.Expression
	Env    *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "[function/" + strconv.Itoa(len(f.Params)) + "]" }

// BuiltinFunc is the host-callable signature: a materialized argument list in,
// a single value or failure out.
type BuiltinFunc func(args []Object) (Object, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "[builtin " + b.Name + "]" }

// Module is a named bag of host members, handed in through the initial scope.
type Module struct {
	Name    string
	Members map[string]Object
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return "[module " + m.Name + "]" }

// ObjectsEqual implements the language's equality: structural for Number,
// String and Boolean, element-wise for lists and records, identity-flavored
// for the remaining variants. Values of different variants are never equal
// and nothing coerces.
func ObjectsEqual(a, b Object) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Number:
		return av.Value == b.(*Number).Value
	case *String:
		return av.Value == b.(*String).Value
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !ObjectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv := b.(*Record)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !ObjectsEqual(v, ov) {
				return false
			}
		}
		return true
	case *Builtin:
		return av == b.(*Builtin)
	case *Module:
		return av == b.(*Module)
	case *Function:
		return av == b.(*Function)
	case *Struct:
		return av == b.(*Struct)
	default:
		return false
	}
}
