package lang

import (
	"context"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/quill/log"
)

// Tokenize converts src into tokens terminated by a [TokenEOF] token.
//
// Tokenizing stops at the first malformed input and returns only the error.
func Tokenize(ctx context.Context, src string, opts ...Option) ([]Token, error) {
	o := makeOptions(opts...)

	l := &lexer{
		input:  src,
		line:   1,
		col:    1,
		logger: o.logger,
	}

	if err := l.run(); err != nil {
		l.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	l.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("source_bytes", len(src)),
		slog.Int("token_count", len(l.tokens)))

	return l.tokens, nil
}

// lexer holds the scanner state.
type lexer struct {
	input  string
	tokens []Token
	logger log.Logger
	pos    int
	line   int
	col    int
}

// singles maps each single-character token to its kind.
//
//nolint:gochecknoglobals
var singles = map[rune]TokenKind{
	'.': TokenDot,
	',': TokenComma,
	'(': TokenOpenParen,
	')': TokenCloseParen,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	'{': TokenOpenBrace,
	'}': TokenCloseBrace,
}

func (l *lexer) run() *Error {
	for !l.eof() {
		start := l.position()
		ch := l.peek()

		switch {
		case ch == ' ' || ch == '\t':
			l.advance()

		case ch == '\n' || ch == '\r':
			l.newline()

		case ch == '#':
			if err := l.skipComment(start); err != nil {
				return err
			}

		case isIdentifierStart(ch):
			l.scanName(start)

		case isDigit(ch):
			if err := l.scanNumber(start); err != nil {
				return err
			}

		case ch == '=':
			l.advance()
			l.emit(TokenAssignment, "=", start)

		case isOperator(ch):
			l.advance()

			if l.peek() == '=' {
				l.advance()
				l.emit(TokenAssignment, string(ch)+"=", start)
			} else {
				l.emit(TokenOperator, string(ch), start)
			}

		default:
			kind, ok := singles[ch]
			if !ok {
				return ErrInvalidCharacter.At(start).
					Detailf("invalid character %q", ch)
			}

			l.advance()
			l.emit(kind, string(ch), start)
		}
	}

	l.emit(TokenEOF, "", l.position())

	return nil
}

func (l *lexer) emit(kind TokenKind, lexeme string, pos Pos) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lexeme: lexeme, Pos: pos})
}

// scanName consumes an identifier or keyword.
func (l *lexer) scanName(start Pos) {
	begin := l.pos

	for !l.eof() && isIdentifierPart(l.peek()) {
		l.advance()
	}

	name := l.input[begin:l.pos]
	if IsKeyword(name) {
		l.emit(TokenKeyword, name, start)
	} else {
		l.emit(TokenIdentifier, name, start)
	}
}

// scanNumber consumes a run of digits holding at most one decimal point.
func (l *lexer) scanNumber(start Pos) *Error {
	begin := l.pos
	decimal := false

	for !l.eof() {
		ch := l.peek()

		if ch == '.' {
			if decimal {
				return ErrMultipleDecimals.At(l.position())
			}

			decimal = true
		} else if !isDigit(ch) {
			break
		}

		l.advance()
	}

	if decimal {
		l.emit(TokenFloat, l.input[begin:l.pos], start)
	} else {
		l.emit(TokenInteger, l.input[begin:l.pos], start)
	}

	return nil
}

// skipComment discards everything from '#' through the closing '!'.
func (l *lexer) skipComment(start Pos) *Error {
	l.advance() // skip '#'

	for !l.eof() {
		switch l.peek() {
		case '!':
			l.advance()

			return nil

		case '\n', '\r':
			l.newline()

		default:
			l.advance()
		}
	}

	return ErrCommentNotClosed.At(start)
}

// Helper methods

func (l *lexer) peek() rune {
	if l.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	l.col++
}

// newline consumes one line break, treating "\r\n" as a single break.
func (l *lexer) newline() {
	if l.peek() == '\r' {
		l.pos++

		if l.peek() == '\n' {
			l.pos++
		}
	} else {
		l.pos++
	}

	l.line++
	l.col = 1
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Pos {
	return Pos{Line: l.line, Column: l.col}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '^':
		return true
	default:
		return false
	}
}
