package modules

import (
	"fmt"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// MapModule operates on records. Key order is sorted so scripts see a
// deterministic view.
func MapModule() *evaluator.Module {
	return module("Map", map[string]evaluator.BuiltinFunc{
		"keys": func(args []evaluator.Object) (evaluator.Object, error) {
			rec, err := oneRecord("keys", args)
			if err != nil {
				return nil, err
			}
			keys := sortedKeys(rec.Fields)
			elements := make([]evaluator.Object, len(keys))
			for i, k := range keys {
				elements[i] = &evaluator.String{Value: k}
			}
			return &evaluator.List{Elements: elements}, nil
		},
		"values": func(args []evaluator.Object) (evaluator.Object, error) {
			rec, err := oneRecord("values", args)
			if err != nil {
				return nil, err
			}
			keys := sortedKeys(rec.Fields)
			elements := make([]evaluator.Object, len(keys))
			for i, k := range keys {
				elements[i] = rec.Fields[k]
			}
			return &evaluator.List{Elements: elements}, nil
		},
		"get": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("get takes 2 arguments, got %d", len(args))
			}
			rec, ok := args[0].(*evaluator.Record)
			if !ok {
				return nil, fmt.Errorf("get receiver is %s, not RECORD", args[0].Type())
			}
			key, ok := args[1].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("get key is %s, not STRING", args[1].Type())
			}
			field, ok := rec.Fields[key.Value]
			if !ok {
				return nil, fmt.Errorf("no field %q", key.Value)
			}
			return field, nil
		},
		"has": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("has takes 2 arguments, got %d", len(args))
			}
			rec, ok := args[0].(*evaluator.Record)
			if !ok {
				return nil, fmt.Errorf("has receiver is %s, not RECORD", args[0].Type())
			}
			key, ok := args[1].(*evaluator.String)
			if !ok {
				return nil, fmt.Errorf("has key is %s, not STRING", args[1].Type())
			}
			_, found := rec.Fields[key.Value]
			return &evaluator.Boolean{Value: found}, nil
		},
	})
}

func oneRecord(name string, args []evaluator.Object) (*evaluator.Record, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes 1 argument, got %d", name, len(args))
	}
	rec, ok := args[0].(*evaluator.Record)
	if !ok {
		return nil, fmt.Errorf("%s argument is %s, not RECORD", name, args[0].Type())
	}
	return rec, nil
}
