package backend

import (
	"fmt"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
	"github.com/lazuli-lang/lazuli/internal/vm"
)

// VMBackend compiles the program to bytecode and runs it on the abstract
// stack machine.
type VMBackend struct{}

func NewVM() *VMBackend {
	return &VMBackend{}
}

func (b *VMBackend) Name() string { return "vm" }

func (b *VMBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to compile")
	}
	chunk, err := vm.Compile(ctx.AstRoot, ctx.Globals)
	if err != nil {
		return nil, err
	}
	return vm.NewMachine(chunk).RunToObject()
}

// Disassemble compiles the program and returns the bytecode listing without
// executing anything.
func (b *VMBackend) Disassemble(ctx *pipeline.PipelineContext) (string, error) {
	if ctx.AstRoot == nil {
		return "", fmt.Errorf("no AST to compile")
	}
	chunk, err := vm.Compile(ctx.AstRoot, ctx.Globals)
	if err != nil {
		return "", err
	}
	name := ctx.FilePath
	if name == "" {
		name = "main"
	}
	return vm.Disassemble(chunk, name), nil
}
