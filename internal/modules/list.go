package modules

import (
	"fmt"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// ListModule covers list operations beyond the receiver methods strings and
// lists already carry.
func ListModule() *evaluator.Module {
	return module("List", map[string]evaluator.BuiltinFunc{
		"length": func(args []evaluator.Object) (evaluator.Object, error) {
			list, err := oneList("length", args)
			if err != nil {
				return nil, err
			}
			return &evaluator.Number{Value: float64(len(list.Elements))}, nil
		},
		"get": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("get takes 2 arguments, got %d", len(args))
			}
			list, ok := args[0].(*evaluator.List)
			if !ok {
				return nil, fmt.Errorf("get receiver is %s, not LIST", args[0].Type())
			}
			idx, ok := args[1].(*evaluator.Number)
			if !ok {
				return nil, fmt.Errorf("get index is %s, not NUMBER", args[1].Type())
			}
			i := int(idx.Value)
			if i < 0 || i >= len(list.Elements) {
				return nil, fmt.Errorf("index %d out of range (length %d)", i, len(list.Elements))
			}
			return list.Elements[i], nil
		},
		"concat": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("concat takes 2 arguments, got %d", len(args))
			}
			a, ok := args[0].(*evaluator.List)
			if !ok {
				return nil, fmt.Errorf("concat left operand is %s, not LIST", args[0].Type())
			}
			b, ok := args[1].(*evaluator.List)
			if !ok {
				return nil, fmt.Errorf("concat right operand is %s, not LIST", args[1].Type())
			}
			joined := make([]evaluator.Object, 0, len(a.Elements)+len(b.Elements))
			joined = append(joined, a.Elements...)
			joined = append(joined, b.Elements...)
			return &evaluator.List{Elements: joined}, nil
		},
		"reverse": func(args []evaluator.Object) (evaluator.Object, error) {
			list, err := oneList("reverse", args)
			if err != nil {
				return nil, err
			}
			out := make([]evaluator.Object, len(list.Elements))
			for i, el := range list.Elements {
				out[len(out)-1-i] = el
			}
			return &evaluator.List{Elements: out}, nil
		},
		"range": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("range takes 2 arguments, got %d", len(args))
			}
			start, ok := args[0].(*evaluator.Number)
			if !ok {
				return nil, fmt.Errorf("range start is %s, not NUMBER", args[0].Type())
			}
			end, ok := args[1].(*evaluator.Number)
			if !ok {
				return nil, fmt.Errorf("range end is %s, not NUMBER", args[1].Type())
			}
			var out []evaluator.Object
			for i := start.Value; i < end.Value; i++ {
				out = append(out, &evaluator.Number{Value: i})
			}
			return &evaluator.List{Elements: out}, nil
		},
	})
}

func oneList(name string, args []evaluator.Object) (*evaluator.List, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes 1 argument, got %d", name, len(args))
	}
	list, ok := args[0].(*evaluator.List)
	if !ok {
		return nil, fmt.Errorf("%s argument is %s, not LIST", name, args[0].Type())
	}
	return list, nil
}
