// Package modules provides the host library surface exposed to scripts. The
// registry is an explicit value handed to the execution entry point, not a
// process-wide singleton: callers pick which modules a run can see.
package modules

import "github.com/lazuli-lang/lazuli/internal/evaluator"

// Registry returns the standard initial scope: one Module object per
// library, keyed by the name scripts use.
func Registry() map[string]evaluator.Object {
	return map[string]evaluator.Object{
		"List": ListModule(),
		"Map":  MapModule(),
		"Str":  StrModule(),
		"Json": JsonModule(),
		"Yaml": YamlModule(),
		"Uuid": UuidModule(),
		"Sql":  SqlModule(),
	}
}

func module(name string, members map[string]evaluator.BuiltinFunc) *evaluator.Module {
	built := make(map[string]evaluator.Object, len(members))
	for n, fn := range members {
		built[n] = &evaluator.Builtin{Name: name + "." + n, Fn: fn}
	}
	return &evaluator.Module{Name: name, Members: built}
}
