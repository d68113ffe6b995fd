// Package compiler implements Mavix's single-pass Pratt parser: it drives
// itself directly off the token stream and emits bytecode straight into a
// target Chunk, with no intervening AST.
package compiler

import (
	"fmt"
	"os"
	"strconv"

	"mavix/internal/chunk"
	"mavix/internal/debug"
	"mavix/internal/lexer"
	"mavix/internal/token"
	"mavix/internal/value"
)

// Precedence levels, lowest to highest. Each binary operator parselet
// recurses at precedence+1 to get left-associativity.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler)

// rule pairs a token kind with its prefix/infix parselets and the
// precedence an infix use of that kind binds at.
type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Kind]rule

func init() {
	rules = map[token.Kind]rule{
		token.LeftParen:    {prefix: (*Compiler).grouping},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: precTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: precFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: precFactor},
		token.Bang:         {prefix: (*Compiler).unary},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: precEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: precEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: precComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: precComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: precComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: precComparison},
		token.Number:       {prefix: (*Compiler).number},
		token.False:        {prefix: (*Compiler).literal},
		token.Nil:          {prefix: (*Compiler).literal},
		token.True:         {prefix: (*Compiler).literal},
	}
}

func getRule(kind token.Kind) rule {
	return rules[kind]
}

// CompileError reports the first compile-time failure encountered: the
// line it occurred on, its token context ("at end", "at 'x'", or "" for
// an Error token whose message already carries the detail), and the
// message itself. errorAt constructs one the first time panicMode is
// entered; Compile returns it alongside the bool spec.md's compile
// contract calls for.
type CompileError struct {
	Line    int
	Context string
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error %s: %s", e.Line, e.Context, e.Message)
}

// Compiler is the parser/emitter pair for a single Compile call. It is
// fresh per call; no state survives across calls.
type Compiler struct {
	scanner *lexer.Lexer
	source  string
	chunk   *chunk.Chunk

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	printCode bool
	err       error
}

// Option configures a Compile call's debug behavior.
type Option func(*Compiler)

// WithDebugPrintCode disassembles the chunk to stdout after a successful
// compile, mirroring the DEBUG_PRINT_CODE feature flag.
func WithDebugPrintCode() Option {
	return func(c *Compiler) { c.printCode = true }
}

// Compile lexes and parses source as a single expression, emitting
// bytecode into out. It returns false if any compile error occurred, in
// which case out's contents must not be executed; the error return
// carries the first CompileError encountered, or nil on success.
func Compile(source string, out *chunk.Chunk, opts ...Option) (bool, error) {
	c := &Compiler{
		scanner: lexer.New(source),
		source:  source,
		chunk:   out,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.endCompiler()

	return !c.hadError, c.err
}

func (c *Compiler) advance() {
	c.previous = c.current

	for {
		c.current = c.scanner.ScanToken()
		if c.current.Kind != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Kind).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	prefixRule(c)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infixRule := getRule(c.previous.Kind).infix
		infixRule(c)
	}
}

// --- parselets ---

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) number() {
	lexeme := c.previous.Lexeme(c.source)
	n, _ := strconv.ParseFloat(lexeme, 64)
	c.emitConstant(value.MakeNumber(n))
}

func (c *Compiler) literal() {
	switch c.previous.Kind {
	case token.False:
		c.emitByte(byte(chunk.OpFalse))
	case token.Nil:
		c.emitByte(byte(chunk.OpNil))
	case token.True:
		c.emitByte(byte(chunk.OpTrue))
	}
}

func (c *Compiler) unary() {
	operatorKind := c.previous.Kind
	c.parsePrecedence(precUnary)

	switch operatorKind {
	case token.Bang:
		c.emitByte(byte(chunk.OpNot))
	case token.Minus:
		c.emitByte(byte(chunk.OpNegate))
	}
}

func (c *Compiler) binary() {
	operatorKind := c.previous.Kind
	r := getRule(operatorKind)
	c.parsePrecedence(r.precedence + 1)

	switch operatorKind {
	case token.BangEqual:
		c.emitBytes(byte(chunk.OpEqual), byte(chunk.OpNot))
	case token.EqualEqual:
		c.emitByte(byte(chunk.OpEqual))
	case token.Greater:
		c.emitByte(byte(chunk.OpGreater))
	case token.GreaterEqual:
		c.emitBytes(byte(chunk.OpLess), byte(chunk.OpNot))
	case token.Less:
		c.emitByte(byte(chunk.OpLess))
	case token.LessEqual:
		c.emitBytes(byte(chunk.OpGreater), byte(chunk.OpNot))
	case token.Plus:
		c.emitByte(byte(chunk.OpAdd))
	case token.Minus:
		c.emitByte(byte(chunk.OpSubtract))
	case token.Star:
		c.emitByte(byte(chunk.OpMultiply))
	case token.Slash:
		c.emitByte(byte(chunk.OpDivide))
	}
}

// --- emission ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *Compiler) emitReturn() {
	c.emitByte(byte(chunk.OpReturn))
}

func (c *Compiler) makeConstant(v value.Value) byte {
	index := c.chunk.AddConstant(v)
	if index > 255 {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(index)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitBytes(byte(chunk.OpConstant), c.makeConstant(v))
}

func (c *Compiler) endCompiler() {
	c.emitReturn()
	if c.printCode && !c.hadError {
		fmt.Fprint(os.Stdout, debug.DisassembleChunk(c.chunk, "code"))
	}
}

// --- error reporting (panic mode) ---

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

// errorAt reports a compile error at tok. Once panicMode is set, further
// calls are no-ops until the end of this Compile call — there is no
// synchronize() in this revision, so panic mode persists through EOF.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var context string
	switch tok.Kind {
	case token.EOF:
		context = "at end"
	case token.Error:
		// The message already contains the detail; no extra context.
	default:
		context = fmt.Sprintf("at '%s'", tok.Lexeme(c.source))
	}

	err := CompileError{Line: tok.Line, Context: context, Message: message}
	if c.err == nil {
		c.err = err
	}
	fmt.Fprintln(os.Stderr, err.Error())
}
