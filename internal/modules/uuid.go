package modules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

func UuidModule() *evaluator.Module {
	return module("Uuid", map[string]evaluator.BuiltinFunc{
		"v4": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("v4 takes no arguments, got %d", len(args))
			}
			return &evaluator.String{Value: uuid.NewString()}, nil
		},
		"validate": func(args []evaluator.Object) (evaluator.Object, error) {
			s, err := oneString("validate", args)
			if err != nil {
				return nil, err
			}
			_, err = uuid.Parse(s.Value)
			return &evaluator.Boolean{Value: err == nil}, nil
		},
	})
}
