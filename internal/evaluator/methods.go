package evaluator

import (
	"fmt"
	"strings"
)

// StringMethod returns the named method of a string value as a host callable
// bound to its receiver.
func StringMethod(recv string, name string) (*Builtin, error) {
	switch name {
	case "concat":
		return &Builtin{Name: "concat", Fn: func(args []Object) (Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("concat takes 1 argument, got %d", len(args))
			}
			other, ok := args[0].(*String)
			if !ok {
				return nil, fmt.Errorf("concat argument is %s, not STRING", args[0].Type())
			}
			return &String{Value: recv + other.Value}, nil
		}}, nil
	case "length":
		return &Builtin{Name: "length", Fn: func(args []Object) (Object, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("length takes no arguments, got %d", len(args))
			}
			return &Number{Value: float64(len(recv))}, nil
		}}, nil
	case "split":
		return &Builtin{Name: "split", Fn: func(args []Object) (Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("split takes 1 argument, got %d", len(args))
			}
			sep, ok := args[0].(*String)
			if !ok {
				return nil, fmt.Errorf("split argument is %s, not STRING", args[0].Type())
			}
			parts := strings.Split(recv, sep.Value)
			elements := make([]Object, len(parts))
			for i, p := range parts {
				elements[i] = &String{Value: p}
			}
			return &List{Elements: elements}, nil
		}}, nil
	default:
		return nil, fmt.Errorf("string has no method %q", name)
	}
}

// ListMethod returns the named method of a list value bound to its receiver.
func ListMethod(recv *List, name string) (*Builtin, error) {
	switch name {
	case "length":
		return &Builtin{Name: "length", Fn: func(args []Object) (Object, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("length takes no arguments, got %d", len(args))
			}
			return &Number{Value: float64(len(recv.Elements))}, nil
		}}, nil
	case "concat":
		return &Builtin{Name: "concat", Fn: func(args []Object) (Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("concat takes 1 argument, got %d", len(args))
			}
			other, ok := args[0].(*List)
			if !ok {
				return nil, fmt.Errorf("concat argument is %s, not LIST", args[0].Type())
			}
			joined := make([]Object, 0, len(recv.Elements)+len(other.Elements))
			joined = append(joined, recv.Elements...)
			joined = append(joined, other.Elements...)
			return &List{Elements: joined}, nil
		}}, nil
	default:
		return nil, fmt.Errorf("list has no method %q", name)
	}
}

func stringMethod(s *String, name string) (Object, error) {
	m, err := StringMethod(s.Value, name)
	if err != nil {
		return nil, newError(ErrTypeMismatch, "%v", err)
	}
	return m, nil
}

func listMethod(l *List, name string) (Object, error) {
	m, err := ListMethod(l, name)
	if err != nil {
		return nil, newError(ErrTypeMismatch, "%v", err)
	}
	return m, nil
}
