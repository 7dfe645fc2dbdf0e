package modules

import (
	"fmt"
	"strings"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

func StrModule() *evaluator.Module {
	return module("Str", map[string]evaluator.BuiltinFunc{
		"length": func(args []evaluator.Object) (evaluator.Object, error) {
			s, err := oneString("length", args)
			if err != nil {
				return nil, err
			}
			return &evaluator.Number{Value: float64(len(s.Value))}, nil
		},
		"concat": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("concat takes 2 arguments, got %d", len(args))
			}
			a, ok := args[0].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("concat left operand is %s, not STRING", args[0].Type())
			}
			b, ok := args[1].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("concat right operand is %s, not STRING", args[1].Type())
			}
			return &evaluator.String{Value: a.Value + b.Value}, nil
		},
		"split": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("split takes 2 arguments, got %d", len(args))
			}
			s, ok := args[0].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("split receiver is %s, not STRING", args[0].Type())
			}
			sep, ok := args[1].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("split separator is %s, not STRING", args[1].Type())
			}
			parts := strings.Split(s.Value, sep.Value)
			elements := make([]evaluator.Object, len(parts))
			for i, p := range parts {
				elements[i] = &evaluator.String{Value: p}
			}
			return &evaluator.List{Elements: elements}, nil
		},
		"join": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("join takes 2 arguments, got %d", len(args))
			}
			list, ok := args[0].(*evaluator.List)
			if !ok {
				return nil, fmt.Errorf("join receiver is %s, not LIST", args[0].Type())
			}
			sep, ok := args[1].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("join separator is %s, not STRING", args[1].Type())
			}
			parts := make([]string, len(list.Elements))
			for i, el := range list.Elements {
				s, ok := el.(*evaluator.String)
				if !ok {
					return nil, fmt.Errorf("join element %d is %s, not STRING", i, el.Type())
				}
				parts[i] = s.Value
			}
			return &evaluator.String{Value: strings.Join(parts, sep.Value)}, nil
		},
	})
}

func oneString(name string, args []evaluator.Object) (*evaluator.String, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes 1 argument, got %d", name, len(args))
	}
	s, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("%s argument is %s, not STRING", name, args[0].Type())
	}
	return s, nil
}
