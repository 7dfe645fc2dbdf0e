package modules

import (
	"fmt"
	"sort"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// fromObject lowers a materialized object into plain Go data for encoders
// and drivers. Functions and modules have no data representation.
func fromObject(obj evaluator.Object) (interface{}, error) {
	switch v := obj.(type) {
	case *evaluator.Number:
		return v.Value, nil
	case *evaluator.String:
		return v.Value, nil
	case *evaluator.Boolean:
		return v.Value, nil
	case *evaluator.List:
		out := make([]interface{}, len(v.Elements))
		for i, el := range v.Elements {
			conv, err := fromObject(el)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *evaluator.Record:
		out := make(map[string]interface{}, len(v.Fields))
		for name, field := range v.Fields {
			conv, err := fromObject(field)
			if err != nil {
				return nil, err
			}
			out[name] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s has no data representation", obj.Type())
	}
}

// toObject raises decoded Go data into the object model. There is no null in
// the language, so null input is an error rather than a default.
func toObject(v interface{}) (evaluator.Object, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not representable")
	case bool:
		return &evaluator.Boolean{Value: t}, nil
	case int:
		return &evaluator.Number{Value: float64(t)}, nil
	case int64:
		return &evaluator.Number{Value: float64(t)}, nil
	case float64:
		return &evaluator.Number{Value: t}, nil
	case string:
		return &evaluator.String{Value: t}, nil
	case []interface{}:
		elements := make([]evaluator.Object, len(t))
		for i, el := range t {
			obj, err := toObject(el)
			if err != nil {
				return nil, err
			}
			elements[i] = obj
		}
		return &evaluator.List{Elements: elements}, nil
	case map[string]interface{}:
		fields := make(map[string]evaluator.Object, len(t))
		for name, field := range t {
			obj, err := toObject(field)
			if err != nil {
				return nil, err
			}
			fields[name] = obj
		}
		return &evaluator.Record{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func sortedKeys(fields map[string]evaluator.Object) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
