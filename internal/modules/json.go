package modules

import (
	"encoding/json"
	"fmt"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

func JsonModule() *evaluator.Module {
	return module("Json", map[string]evaluator.BuiltinFunc{
		"encode": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("encode takes 1 argument, got %d", len(args))
			}
			data, err := fromObject(args[0])
			if err != nil {
				return nil, err
			}
			out, err := json.Marshal(data)
			if err != nil {
				return nil, err
			}
			return &evaluator.String{Value: string(out)}, nil
		},
		"decode": func(args []evaluator.Object) (evaluator.Object, error) {
			s, err := oneString("decode", args)
			if err != nil {
				return nil, err
			}
			var data interface{}
			if err := json.Unmarshal([]byte(s.Value), &data); err != nil {
				return nil, err
			}
			return toObject(data)
		},
	})
}
