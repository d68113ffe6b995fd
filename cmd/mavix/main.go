// Command mavix is the Mavix REPL and batch interpreter.
//
// Usage:
//
//	mavix                 REPL mode
//	mavix <path>           run a script
//	mavix -c <path>        compile <path> to <path-without-ext>.mvxc
//	mavix -r <path.mvxc>   run previously compiled bytecode
//	mavix -d <path>        disassemble <path> without executing it
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mavix/internal/chunk"
	"mavix/internal/compiler"
	"mavix/internal/config"
	"mavix/internal/debug"
	"mavix/internal/replio"
	"mavix/internal/vm"
)

const banner = "Mavix v0.1 [REPL mode]\nType 'exit' or press Ctrl+D to quit."

func main() {
	cfg, err := config.LoadFile(config.Default(), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: reading mavix.toml: %s\n", err)
		os.Exit(74)
	}

	args, printCode, trace := stripDebugFlags(os.Args[1:])
	cfg = config.ApplyFlags(cfg, printCode, trace)

	if len(args) == 2 {
		switch args[0] {
		case "-c":
			os.Exit(runCompile(args[1]))
		case "-r":
			os.Exit(runCompiled(args[1], cfg))
		case "-d":
			os.Exit(runDisassemble(args[1]))
		}
	}

	switch len(args) {
	case 0:
		os.Exit(runREPL(cfg))
	case 1:
		os.Exit(runFile(args[0], cfg))
	default:
		fmt.Fprintln(os.Stderr, "Usage: mavix [path]")
		os.Exit(64)
	}
}

// stripDebugFlags pulls the -trace/-print-code switches out of args
// wherever they appear, so the exact arity contract of spec.md §6 still
// applies to whatever's left. Returns nil for a flag that wasn't passed,
// so config.ApplyFlags can tell "off" from "not mentioned".
func stripDebugFlags(args []string) (rest []string, printCode, trace *bool) {
	for _, a := range args {
		switch a {
		case "-print-code":
			v := true
			printCode = &v
		case "-trace":
			v := true
			trace = &v
		default:
			rest = append(rest, a)
		}
	}
	return rest, printCode, trace
}

func runREPL(cfg config.Config) int {
	fmt.Println(banner)

	reader, err := replio.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: %s\n", err)
		return 74
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine(">>> ")
		if err == replio.ErrEOF {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "mavix: %s\n", err)
			return 74
		}
		if strings.TrimSpace(line) == "exit" {
			return 0
		}
		interpret(line, cfg)
	}
}

func runFile(path string, cfg config.Config) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: could not read file \"%s\".\n", path)
		return 74
	}

	switch interpret(string(source), cfg) {
	case vm.InterpretCompileError:
		return 65
	case vm.InterpretRuntimeError:
		return 70
	default:
		return 0
	}
}

func interpret(source string, cfg config.Config) vm.Result {
	c := chunk.New()
	defer c.Free()

	var opts []compiler.Option
	if cfg.DebugPrintCode {
		opts = append(opts, compiler.WithDebugPrintCode())
	}

	ok, _ := compiler.Compile(source, c, opts...)
	machine := vm.New(cfg.DebugTraceExecution)
	return machine.Interpret(c, ok)
}

func runCompile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: could not read file \"%s\".\n", path)
		return 74
	}

	c := chunk.New()
	if ok, _ := compiler.Compile(string(source), c); !ok {
		return 65
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".mvxc"
	data, err := chunk.Serialize(c, uuid.New().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: %s\n", err)
		return 74
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "mavix: could not write file \"%s\".\n", out)
		return 74
	}
	return 0
}

func runCompiled(path string, cfg config.Config) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: could not read file \"%s\".\n", path)
		return 74
	}

	c, runID, err := chunk.Deserialize(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: %s\n", err)
		return 74
	}
	if cfg.DebugTraceExecution {
		fmt.Fprintf(os.Stderr, "mavix: loaded bytecode from run %s\n", runID)
	}

	machine := vm.New(cfg.DebugTraceExecution)
	switch machine.Interpret(c, true) {
	case vm.InterpretRuntimeError:
		return 70
	default:
		return 0
	}
}

func runDisassemble(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mavix: could not read file \"%s\".\n", path)
		return 74
	}

	c := chunk.New()
	if ok, _ := compiler.Compile(string(source), c); !ok {
		return 65
	}

	fmt.Print(debug.DisassembleChunk(c, path))
	return 0
}
