package vm

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"mavix/internal/chunk"
	"mavix/internal/compiler"
)

// captureStdout runs fn with os.Stdout replaced by a pipe and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	original := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = original }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func run(t *testing.T, source string) (stdout, stderr string, result Result) {
	t.Helper()
	c := chunk.New()
	ok, _ := compiler.Compile(source, c)

	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			machine := New(false)
			result = machine.Interpret(c, ok)
		})
	})
	return stdout, stderr, result
}

func TestArithmetic(t *testing.T) {
	stdout, _, result := run(t, "1 + 2")
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "3\n", stdout)
}

func TestOperatorPrecedenceAndAssociativity(t *testing.T) {
	stdout, _, result := run(t, "(-1 + 2) * 3 - -4")
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "7\n", stdout)
}

func TestComparisonAndEquality(t *testing.T) {
	stdout, _, result := run(t, "!(5 - 4 > 3 * 2 == !nil)")
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "true\n", stdout)
}

func TestTypeErrorOnAddition(t *testing.T) {
	_, stderr, result := run(t, "1 + true")
	require.Equal(t, InterpretRuntimeError, result)
	require.Contains(t, stderr, "Operands must be numbers.")
	require.Contains(t, stderr, "[line 1] in script")
}

func TestRuntimeErrorIsRetrievableFromVM(t *testing.T) {
	c := chunk.New()
	ok, _ := compiler.Compile("1 + true", c)
	require.True(t, ok)

	machine := New(false)
	_ = captureStderr(t, func() {
		_ = captureStdout(t, func() {
			require.Equal(t, InterpretRuntimeError, machine.Interpret(c, ok))
		})
	})

	var runtimeErr RuntimeError
	require.ErrorAs(t, machine.Err(), &runtimeErr)
	require.Equal(t, 1, runtimeErr.Line)
	require.Equal(t, "Operands must be numbers.", runtimeErr.Message)
}

func TestNaNNotEqualToItself(t *testing.T) {
	stdout, _, result := run(t, "(0 / 0) == (0 / 0)")
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "false\n", stdout)
}

func TestStackEmptyAfterReturn(t *testing.T) {
	c := chunk.New()
	ok, _ := compiler.Compile("1 + 2", c)
	require.True(t, ok)

	machine := New(false)
	_ = captureStdout(t, func() {
		machine.Interpret(c, ok)
	})
	require.Equal(t, 0, machine.stackTop)
}
