// Package vm implements Mavix's stack-based interpreter: a fixed-capacity
// value stack, an instruction pointer into a Chunk's code, and an opcode
// dispatch loop.
package vm

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"mavix/internal/chunk"
	"mavix/internal/debug"
	"mavix/internal/value"
)

// stackMax is the VM's fixed value-stack capacity. Overflowing it is
// undefined behavior in this revision, matching the original
// implementation rather than adding bounds-checked growth.
const stackMax = 256

// Result is the outcome of an Interpret call.
type Result int

const (
	InterpretOK Result = iota
	InterpretCompileError
	InterpretRuntimeError
)

// RuntimeError reports the type error that aborted a run: the line the
// failing instruction ended on and a message describing the failure.
// runtimeError constructs one for every abort and keeps it on the VM so
// callers that need more than the exit-code mapping can retrieve it
// with Err.
type RuntimeError struct {
	Line    int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Message, e.Line)
}

// VM holds all state for one Interpret call: the chunk being executed,
// the instruction pointer, and the value stack. It is reset at the start
// of every call.
type VM struct {
	chunk *chunk.Chunk
	ip    int

	stack    [stackMax]value.Value
	stackTop int

	Trace bool
	err   error
}

// New returns a VM ready for Interpret. Trace mirrors the
// DEBUG_TRACE_EXECUTION feature flag; DEBUG_PRINT_CODE needs only the
// finished chunk, so it's handled entirely by the compiler package
// instead of being threaded through the VM as well.
func New(trace bool) *VM {
	v := &VM{Trace: trace}
	v.resetStack()
	return v
}

// Err returns the RuntimeError from the most recent Interpret call that
// aborted with InterpretRuntimeError, or nil otherwise.
func (vm *VM) Err() error {
	return vm.err
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Interpret runs c, the result of a prior compile, when ok reports that
// the compile succeeded; otherwise it returns InterpretCompileError
// without executing anything. When Trace is set, a trace header carrying
// a fresh uuid is printed to stderr once before execution begins, so
// interleaved REPL/batch traces can be told apart.
func (vm *VM) Interpret(c *chunk.Chunk, ok bool) Result {
	vm.err = nil
	if !ok {
		return InterpretCompileError
	}

	vm.chunk = c
	vm.ip = 0
	vm.resetStack()

	if vm.Trace {
		runID := uuid.New().String()
		fmt.Fprintf(os.Stderr, "== trace %s ==\n", runID)
	}

	return vm.run()
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) run() Result {
	for {
		if vm.Trace {
			vm.printStack()
			line, _ := debug.DisassembleInstruction(vm.chunk, vm.ip)
			fmt.Fprintln(os.Stderr, line)
		}

		instruction := chunk.OpCode(vm.readByte())
		switch instruction {
		case chunk.OpConstant:
			vm.push(vm.readConstant())
		case chunk.OpNil:
			vm.push(value.MakeNil())
		case chunk.OpTrue:
			vm.push(value.MakeBool(true))
		case chunk.OpFalse:
			vm.push(value.MakeBool(false))
		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.MakeBool(value.Equal(a, b)))
		case chunk.OpGreater:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeBool(a > b) }); res != InterpretOK {
				return res
			}
		case chunk.OpLess:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeBool(a < b) }); res != InterpretOK {
				return res
			}
		case chunk.OpAdd:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeNumber(a + b) }); res != InterpretOK {
				return res
			}
		case chunk.OpSubtract:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeNumber(a - b) }); res != InterpretOK {
				return res
			}
		case chunk.OpMultiply:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeNumber(a * b) }); res != InterpretOK {
				return res
			}
		case chunk.OpDivide:
			if res := vm.binaryOp(func(a, b float64) value.Value { return value.MakeNumber(a / b) }); res != InterpretOK {
				return res
			}
		case chunk.OpNot:
			vm.push(value.MakeBool(vm.pop().IsFalsey()))
		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.MakeNumber(-vm.pop().Number))
		case chunk.OpReturn:
			value.Print(vm.pop())
			fmt.Println()
			return InterpretOK
		}
	}
}

// binaryOp implements the peek-before-pop contract: both operands are
// type-checked before anything is popped, so a type error leaves the
// stack untouched beyond the error report.
func (vm *VM) binaryOp(op func(a, b float64) value.Value) Result {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	vm.push(op(a.Number, b.Number))
	return InterpretOK
}

func (vm *VM) runtimeError(format string, args ...any) Result {
	err := RuntimeError{Line: vm.chunk.Lines[vm.ip-1], Message: fmt.Sprintf(format, args...)}
	vm.err = err
	fmt.Fprintln(os.Stderr, err.Error())
	vm.resetStack()
	return InterpretRuntimeError
}

func (vm *VM) printStack() {
	fmt.Fprint(os.Stderr, "          ")
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(os.Stderr, "[ %s ]", value.String(vm.stack[i]))
	}
	fmt.Fprintln(os.Stderr)
}
