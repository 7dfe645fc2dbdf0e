package vm

import (
	"sort"

	"github.com/lazuli-lang/lazuli/internal/ast"
	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// ImportName is the reserved identifier bound to the module-import callable
// in every compilation unit's root scope.
const ImportName = "import"

// Compiler translates an AST into a Chunk. Code for every node is built as a
// self-contained segment and concatenated, so jump offsets and label lengths
// are computed from final emitted lengths and never patched afterwards.
type Compiler struct {
	chunk *Chunk
	scope *Scope
}

// Compile translates a whole compilation unit. globals is the caller-supplied
// initial scope: each entry is installed as a label in the root scope, as is
// the reserved import callable, so scripts address host modules exactly like
// their own binds.
func Compile(root *ast.Statement, globals map[string]evaluator.Object) (*Chunk, error) {
	c := &Compiler{chunk: NewChunk(), scope: NewScope()}

	prelude := c.compilePrelude(globals)

	body, err := c.compileStatement(root)
	if err != nil {
		return nil, err
	}

	c.chunk.Code = append(prelude, body...)
	return c.chunk, nil
}

func (c *Compiler) compilePrelude(globals map[string]evaluator.Object) []Instr {
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)

	var code []Instr
	emit := func(name string, obj evaluator.Object) {
		id := c.scope.DeclareBind(name)
		idx := c.chunk.AddConstant(HostVal(obj))
		code = append(code,
			Instr{Op: OP_LABEL, A: id, B: 2},
			Instr{Op: OP_CONST, A: idx},
			Instr{Op: OP_RETURN},
		)
	}

	emit(ImportName, NewImportBuiltin(globals))
	for _, name := range names {
		emit(name, globals[name])
	}
	return code
}

// compileStatement emits one label per definition, each body compiled in the
// block's own forked scope so sibling definitions can reference each other
// regardless of source order, followed by the trailing expression.
func (c *Compiler) compileStatement(s *ast.Statement) ([]Instr, error) {
	prev := c.scope
	c.scope = prev.Fork(false)
	defer func() { c.scope = prev }()

	ids := make([]int, len(s.Definitions))
	for i, def := range s.Definitions {
		ids[i] = c.scope.DeclareBind(def.Name)
	}

	var code []Instr
	for i, def := range s.Definitions {
		body, err := c.compileExpression(def.Body)
		if err != nil {
			return nil, err
		}
		body = append(body, Instr{Op: OP_RETURN})
		code = append(code, Instr{Op: OP_LABEL, A: ids[i], B: len(body)})
		code = append(code, body...)
	}

	tail, err := c.compileExpression(s.Body)
	if err != nil {
		return nil, err
	}
	return append(code, tail...), nil
}

func (c *Compiler) compileExpression(e ast.Expression) ([]Instr, error) {
	switch v := e.(type) {
	case *ast.Comparison:
		return c.compileComparison(v)
	case *ast.If:
		return c.compileIf(v)
	default:
		return nil, diagnostics.NewError(diagnostics.ErrC001, 0, 0, "unknown expression node %T", e)
	}
}

// compileIf lays out the alternate branch before the consequent:
//
//	<cond> ; JUMP_IF(len(alt)+2) ; <alt> ; JUMP(len(cons)+1) ; <cons>
//
// JUMP_IF pops the condition and jumps when it is true, landing on the
// consequent; falling through runs the alternate and the closing JUMP skips
// the consequent. Both offsets come from the final branch lengths.
func (c *Compiler) compileIf(v *ast.If) ([]Instr, error) {
	cond, err := c.compileExpression(v.Cond)
	if err != nil {
		return nil, err
	}
	cons, err := c.compileExpression(v.Cons)
	if err != nil {
		return nil, err
	}
	alt, err := c.compileExpression(v.Alt)
	if err != nil {
		return nil, err
	}

	code := cond
	code = append(code, Instr{Op: OP_JUMP_IF, A: len(alt) + 2})
	code = append(code, alt...)
	code = append(code, Instr{Op: OP_JUMP, A: len(cons) + 1})
	code = append(code, cons...)
	return code, nil
}

func (c *Compiler) compileComparison(v *ast.Comparison) ([]Instr, error) {
	code, err := c.compileAdditive(&v.Left)
	if err != nil {
		return nil, err
	}
	for i := range v.Rights {
		right, err := c.compileAdditive(&v.Rights[i].Value)
		if err != nil {
			return nil, err
		}
		code = append(code, right...)
		if v.Rights[i].Op == ast.CompEqual {
			code = append(code, Instr{Op: OP_EQ})
		} else {
			code = append(code, Instr{Op: OP_NE})
		}
	}
	return code, nil
}

func (c *Compiler) compileAdditive(v *ast.Additive) ([]Instr, error) {
	code, err := c.compileMultitive(&v.Left)
	if err != nil {
		return nil, err
	}
	for i := range v.Rights {
		right, err := c.compileMultitive(&v.Rights[i].Value)
		if err != nil {
			return nil, err
		}
		code = append(code, right...)
		if v.Rights[i].Op == ast.AddAdd {
			code = append(code, Instr{Op: OP_ADD})
		} else {
			code = append(code, Instr{Op: OP_SUB})
		}
	}
	return code, nil
}

func (c *Compiler) compileMultitive(v *ast.Multitive) ([]Instr, error) {
	code, err := c.compileOperation(&v.Left)
	if err != nil {
		return nil, err
	}
	for i := range v.Rights {
		right, err := c.compileOperation(&v.Rights[i].Value)
		if err != nil {
			return nil, err
		}
		code = append(code, right...)
		switch v.Rights[i].Op {
		case ast.MulMul:
			code = append(code, Instr{Op: OP_MUL})
		case ast.MulDiv:
			code = append(code, Instr{Op: OP_DIV})
		case ast.MulSurplus:
			code = append(code, Instr{Op: OP_MOD})
		}
	}
	return code, nil
}

func (c *Compiler) compileOperation(v *ast.Operation) ([]Instr, error) {
	code, err := c.compilePrimary(v.Left)
	if err != nil {
		return nil, err
	}
	for _, post := range v.Rights {
		switch p := post.(type) {
		case *ast.Access:
			// Access yields a thunk or field address; the CALL 0 forces it.
			idx := c.chunk.AddConstant(StringVal(p.Name))
			code = append(code,
				Instr{Op: OP_CONST, A: idx},
				Instr{Op: OP_ACCESS},
				Instr{Op: OP_CALL, A: 0},
			)
		case *ast.Index:
			key, err := c.compileExpression(p.Arg)
			if err != nil {
				return nil, err
			}
			code = append(code, key...)
			code = append(code,
				Instr{Op: OP_INDEX},
				Instr{Op: OP_CALL, A: 0},
			)
		case *ast.Call:
			for _, arg := range p.Args {
				argCode, err := c.compileExpression(arg)
				if err != nil {
					return nil, err
				}
				code = append(code, argCode...)
			}
			code = append(code, Instr{Op: OP_CALL, A: len(p.Args)})
		}
	}
	return code, nil
}

func (c *Compiler) compilePrimary(p ast.Primary) ([]Instr, error) {
	switch v := p.(type) {
	case *ast.Number:
		idx := c.chunk.AddConstant(NumberVal(v.Value))
		return []Instr{{Op: OP_CONST, A: idx}}, nil

	case *ast.String:
		idx := c.chunk.AddConstant(StringVal(v.Value))
		return []Instr{{Op: OP_CONST, A: idx}}, nil

	case *ast.Variable:
		ref, ok := c.scope.Resolve(v.Name)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrC001, v.Tok.Line, v.Tok.Column,
				"could not find bind by %q", v.Name)
		}
		if ref.Kind == RefArg {
			return []Instr{{Op: OP_LOAD, A: ref.Index, B: ref.Depth}}, nil
		}
		// A bind reference jumps to its label and returns with the value.
		// Depth pins the body to its defining frame context.
		return []Instr{
			{Op: OP_LABEL_ADDR, A: ref.Index, B: ref.Depth},
			{Op: OP_CALL, A: 0},
		}, nil

	case *ast.Block:
		return c.compileStatement(v.Statement)

	case *ast.Function:
		body, err := c.compileFunctionBody(v.Params, v.Body)
		if err != nil {
			return nil, err
		}
		code := []Instr{{Op: OP_FUNCTION, A: len(body), B: len(v.Params)}}
		return append(code, body...), nil

	case *ast.Struct:
		return c.compileStruct(v)

	case *ast.Array:
		var code []Instr
		for _, item := range v.Items {
			// Each element is its own zero-argument thunk, consistent with
			// struct fields: forced by the CALL 0 following OP_INDEX.
			body, err := c.compileFunctionBody(nil, item)
			if err != nil {
				return nil, err
			}
			code = append(code, Instr{Op: OP_FUNCTION, A: len(body), B: 0})
			code = append(code, body...)
		}
		return append(code, Instr{Op: OP_ARRAY, A: len(v.Items)}), nil

	default:
		return nil, diagnostics.NewError(diagnostics.ErrC001, 0, 0, "unknown primary node %T", p)
	}
}

func (c *Compiler) compileFunctionBody(params []string, body ast.Expression) ([]Instr, error) {
	prev := c.scope
	c.scope = prev.Fork(true)
	defer func() { c.scope = prev }()

	for i, name := range params {
		c.scope.DeclareArg(name, i)
	}
	code, err := c.compileExpression(body)
	if err != nil {
		return nil, err
	}
	return append(code, Instr{Op: OP_RETURN}), nil
}

// compileStruct assigns each field a fresh bind id and emits its body as a
// label; the struct value itself is the field-name to id mapping plus, at
// runtime, the constructing frame. Field bodies always run against that
// frame, so a struct stays valid after the call that built it returns.
func (c *Compiler) compileStruct(v *ast.Struct) ([]Instr, error) {
	prev := c.scope
	c.scope = prev.Fork(false)
	defer func() { c.scope = prev }()

	fields := make(map[string]int, len(v.Definitions))
	ids := make([]int, len(v.Definitions))
	for i, def := range v.Definitions {
		ids[i] = c.scope.DeclareBind(def.Name)
		fields[def.Name] = ids[i]
	}

	var code []Instr
	for i, def := range v.Definitions {
		body, err := c.compileExpression(def.Body)
		if err != nil {
			return nil, err
		}
		body = append(body, Instr{Op: OP_RETURN})
		code = append(code, Instr{Op: OP_LABEL, A: ids[i], B: len(body)})
		code = append(code, body...)
	}

	idx := c.chunk.AddConstant(StructVal(fields))
	return append(code, Instr{Op: OP_STRUCT, A: idx}), nil
}
