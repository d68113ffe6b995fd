// Package replio provides Mavix's REPL line reader: an interactive,
// history-backed reader when stdin is a terminal, and a plain line
// reader (so piped/scripted input is never mangled by line editing)
// otherwise.
package replio

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// maxLineBytes mirrors the REPL's 1024-byte input line cap; longer
// lines are truncated rather than rejected.
const maxLineBytes = 1024

// ErrEOF is returned by ReadLine once input is exhausted, and by the
// interactive reader on Ctrl+C as well.
var ErrEOF = errors.New("replio: end of input")

// Reader reads one REPL line at a time.
type Reader interface {
	// ReadLine returns the next line (without its trailing newline), or
	// ErrEOF when input ends.
	ReadLine(prompt string) (string, error)
	Close() error
}

// New picks an interactive readline.Instance-backed Reader when stdin is
// a terminal, and a bufio.Scanner-backed Reader otherwise.
func New() (Reader, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		rl, err := readline.New("")
		if err != nil {
			return nil, err
		}
		return &interactiveReader{rl: rl}, nil
	}
	return &plainReader{scanner: bufio.NewScanner(os.Stdin)}, nil
}

type interactiveReader struct {
	rl *readline.Instance
}

func (r *interactiveReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", ErrEOF
		}
		return "", err
	}
	if len(line) > maxLineBytes {
		line = line[:maxLineBytes]
	}
	return line, nil
}

func (r *interactiveReader) Close() error {
	return r.rl.Close()
}

type plainReader struct {
	scanner *bufio.Scanner
}

func (r *plainReader) ReadLine(prompt string) (string, error) {
	os.Stdout.WriteString(prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrEOF
	}
	line := r.scanner.Text()
	if len(line) > maxLineBytes {
		line = line[:maxLineBytes]
	}
	return line, nil
}

func (r *plainReader) Close() error { return nil }
