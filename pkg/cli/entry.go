// Package cli implements the lazuli command-line entry point.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lazuli-lang/lazuli/internal/backend"
	"github.com/lazuli-lang/lazuli/internal/config"
	"github.com/lazuli-lang/lazuli/internal/lexer"
	"github.com/lazuli-lang/lazuli/internal/modules"
	"github.com/lazuli-lang/lazuli/internal/parser"
	"github.com/lazuli-lang/lazuli/internal/pipeline"
)

// BackendType determines the default execution backend.
// Can be overridden at build time using: -ldflags "-X .../pkg/cli.BackendType=tree"
var BackendType = config.BackendVM

// Run parses arguments, executes the program and exits the process.
func Run() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(2)
		}
	}()

	expr := flag.String("e", "", "evaluate the given expression instead of a file")
	backendName := flag.String("backend", BackendType, "execution backend: vm or tree")
	disasm := flag.Bool("disasm", false, "print the compiled bytecode instead of executing")
	flag.Usage = usage
	flag.Parse()

	source, filePath, err := readSource(*expr, flag.Args())
	if err != nil {
		fail(err.Error())
		os.Exit(1)
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath
	ctx.Globals = modules.Registry()

	if *disasm {
		disassemble(ctx)
		return
	}

	exec, err := selectBackend(*backendName)
	if err != nil {
		fail(err.Error())
		os.Exit(1)
	}

	p := pipeline.New(
		lexer.NewLexerProcessor(),
		parser.NewParserProcessor(),
		backend.NewExecutionProcessor(exec),
	)
	ctx = p.Run(ctx)

	if len(ctx.Errors) > 0 {
		for _, e := range ctx.Errors {
			fail(e.Error())
		}
		os.Exit(1)
	}

	if ctx.Result != nil {
		fmt.Println(ctx.Result.Inspect())
	}
}

func readSource(expr string, args []string) (source, filePath string, err error) {
	if expr != "" {
		return expr, "", nil
	}
	if len(args) > 0 {
		path := args[0]
		if !config.IsSourceFile(path) {
			return "", "", fmt.Errorf("%s is not a %s source file", path, config.SourceFileExt)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	}
	// No file and no -e: read the program from stdin.
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", err
	}
	return string(data), "", nil
}

func selectBackend(name string) (backend.Backend, error) {
	switch name {
	case config.BackendVM:
		return backend.NewVM(), nil
	case config.BackendTree:
		return backend.NewTreeWalk(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", name, config.BackendVM, config.BackendTree)
	}
}

func disassemble(ctx *pipeline.PipelineContext) {
	p := pipeline.New(
		lexer.NewLexerProcessor(),
		parser.NewParserProcessor(),
	)
	ctx = p.Run(ctx)
	if len(ctx.Errors) > 0 {
		for _, e := range ctx.Errors {
			fail(e.Error())
		}
		os.Exit(1)
	}
	listing, err := backend.NewVM().Disassemble(ctx)
	if err != nil {
		fail(err.Error())
		os.Exit(1)
	}
	fmt.Print(listing)
}

// fail prints one error line, colored when stderr is a terminal.
func fail(msg string) {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: lazuli [flags] [file%s]\n", config.SourceFileExt)
	fmt.Fprintln(os.Stderr, "Runs a Lazuli program from a file, from -e, or from stdin.")
	flag.PrintDefaults()
}
