package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrorKind classifies an [Error].
type ErrorKind uint8

const (
	KindError       ErrorKind = iota // Error
	KindSyntaxError                  // SyntaxError
	KindNameError                    // NameError
	KindTypeError                    // TypeError
)

// Pos is a 1-based source position. The zero value means unknown.
type Pos struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// before reports whether p precedes q in the source.
func (p Pos) before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "unknown position"
	}

	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// Lexer errors.
var (
	ErrInvalidCharacter = newError(KindSyntaxError, "invalid character")
	ErrMultipleDecimals = newError(
		KindSyntaxError, "number cannot contain more than one decimal",
	)
	ErrCommentNotClosed = newError(KindSyntaxError, "comment not closed")
)

// Parser errors.
var (
	ErrUnexpectedToken    = newError(KindSyntaxError, "unexpected token")
	ErrExpectedAssignment = newError(
		KindSyntaxError, "expected variable assignment",
	)
	ErrExpectedCloseParen = newError(KindSyntaxError, "expected ')'")
	ErrExpectedCloseBrace = newError(KindSyntaxError, "expected '}'")
	ErrDanglingComma      = newError(
		KindSyntaxError, "expected expression after ','",
	)
	ErrIntegerLiteral = newError(
		KindSyntaxError, "integer literal out of range",
	)
	ErrFloatLiteral = newError(KindSyntaxError, "invalid float literal")
	ErrNestingDepth = newError(
		KindSyntaxError, "maximum nesting depth exceeded",
	)
	ErrUnknownKeyword = newError(KindNameError, "unknown keyword")
)

// Evaluator errors.
var (
	ErrUndefinedName      = newError(KindNameError, "undefined name")
	ErrAlreadyDeclared    = newError(KindNameError, "name already declared")
	ErrUnsupportedOperand = newError(KindTypeError, "unsupported operand types")
	ErrUnknownOperator    = newError(KindTypeError, "unknown operator")
	ErrNotCallable        = newError(KindTypeError, "value is not callable")
	ErrFunctionCall       = newError(
		KindTypeError, "user-defined functions are not callable",
	)
	ErrInvalidTarget   = newError(KindError, "invalid assignment target")
	ErrIntegerOverflow = newError(KindError, "integer overflow")
	ErrModuloByZero    = newError(KindError, "integer modulo by zero")
	ErrRecursionDepth  = newError(
		KindError, "maximum recursion depth exceeded",
	)
	ErrUnknownNative = newError(KindError, "unknown native function")
	ErrUnknownNode   = newError(KindError, "unknown syntax node")
	ErrInterrupted   = newError(KindError, "evaluation interrupted")
	ErrReadSource    = newError(KindError, "failed to read source")
	ErrWriteOutput   = newError(KindError, "failed to write output")
)

// Error is a classified, positioned failure from any stage of the pipeline.
//
// Package-level sentinels are never modified. The builder methods return
// refined copies that still match their sentinel with [errors.Is].
type Error struct {
	base   *Error
	err    error
	msg    string
	detail string
	attrs  []slog.Attr
	Pos    Pos
	Kind   ErrorKind
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Error implements the error interface:
//
//	<Kind>: <message>[ at line L, column C][: <cause>]
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message())

	if e.Pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.Pos.String())
	}

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Message returns the human-readable description without kind or position.
func (e *Error) Message() string {
	if e.detail != "" {
		return e.detail
	}

	return e.msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (e.base != nil && t == e.base)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)
	attrs = append(attrs,
		slog.String("kind", e.Kind.String()),
		slog.String("error", e.Message()),
	)

	if e.Pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.Pos.Line),
			slog.Int("column", e.Pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) derive() *Error {
	d := *e
	if d.base == nil {
		d.base = e
	}

	return &d
}

// At returns a copy of e located at pos.
func (e *Error) At(pos Pos) *Error {
	d := e.derive()
	d.Pos = pos

	return d
}

// Detailf returns a copy of e whose message is replaced by the formatted text.
func (e *Error) Detailf(format string, args ...any) *Error {
	d := e.derive()
	d.detail = fmt.Sprintf(format, args...)

	return d
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With returns a copy of e with attrs added for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	d.attrs = append(d.attrs, e.attrs...)
	d.attrs = append(d.attrs, attrs...)

	return d
}

// locate positions err at pos unless it already carries a position.
func locate(err error, pos Pos) error {
	if e, ok := err.(*Error); ok && !e.Pos.IsValid() {
		return e.At(pos)
	}

	return err
}

//nolint:gochecknoglobals
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseError collects every error reported while parsing a program.
type ParseError struct {
	Source string
	errs   []*Error
}

// NewParseError returns a ParseError for errs found in source.
func NewParseError(errs []*Error, source string) *ParseError {
	return &ParseError{Source: source, errs: errs}
}

// Errors returns each individual parse error in source order.
func (e *ParseError) Errors() []*Error { return e.errs }

// Unwrap exposes the individual errors to errors.Is/As.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.errs))
	for i, err := range e.errs {
		errs[i] = err
	}

	return errs
}

// Error renders the first error with the offending source line and a caret
// under its column.
func (e *ParseError) Error() string {
	if len(e.errs) == 0 {
		return "parse error"
	}

	first := e.errs[0]

	var sb strings.Builder

	sb.WriteString(first.Error())

	if n := len(e.errs) - 1; n > 0 {
		sb.WriteString(" (and ")
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(" more)")
	}

	sb.WriteString(e.snippet(first.Pos))

	return sb.String()
}

func (e *ParseError) snippet(pos Pos) string {
	if e.Source == "" || !pos.IsValid() {
		return ""
	}

	lines := strings.Split(lineBreaks.Replace(e.Source), "\n")
	if pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(pos.Line)

	sb.WriteString("\n  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[pos.Line-1])
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", pos.Column-1))
	}

	sb.WriteByte('^')

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.errs)+1)
	attrs = append(attrs, slog.Int("count", len(e.errs)))

	for i, err := range e.errs {
		attrs = append(attrs, slog.Any(strconv.Itoa(i), err))
	}

	return slog.GroupValue(attrs...)
}
