package modules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

func YamlModule() *evaluator.Module {
	return module("Yaml", map[string]evaluator.BuiltinFunc{
		"encode": func(args []evaluator.Object) (evaluator.Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("encode takes 1 argument, got %d", len(args))
			}
			data, err := fromObject(args[0])
			if err != nil {
				return nil, err
			}
			out, err := yaml.Marshal(data)
			if err != nil {
				return nil, err
			}
			return &evaluator.String{Value: strings.TrimRight(string(out), "\n")}, nil
		},
		"decode": func(args []evaluator.Object) (evaluator.Object, error) {
			s, err := oneString("decode", args)
			if err != nil {
				return nil, err
			}
			var data interface{}
			if err := yaml.Unmarshal([]byte(s.Value), &data); err != nil {
				return nil, err
			}
			return toObject(data)
		},
	})
}
