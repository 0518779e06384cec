package lang

//go:generate go tool stringer --linecomment --type TokenKind,ErrorKind --output kind_string.go

import (
	"slices"
	"strconv"
)

// TokenKind classifies a [Token].
type TokenKind uint8

const (
	TokenOperator      TokenKind = iota // binary operator
	TokenInteger                        // integer
	TokenFloat                          // float
	TokenIdentifier                     // identifier
	TokenDot                            // dot
	TokenOpenParen                      // open parenthesis
	TokenCloseParen                     // close parenthesis
	TokenOpenBracket                    // open bracket
	TokenCloseBracket                   // close bracket
	TokenOpenBrace                      // open brace
	TokenCloseBrace                     // close brace
	TokenKeyword                        // keyword
	TokenAssignment                     // assignment operator
	TokenComma                          // comma
	TokenEOF                            // end of input
)

// Token is a classified lexeme and the position of its first character.
type Token struct {
	Lexeme string
	Pos    Pos
	Kind   TokenKind
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}

// is reports whether t has kind k and, when lexemes are given, one of them.
func (t Token) is(k TokenKind, lexemes ...string) bool {
	if t.Kind != k {
		return false
	}

	return len(lexemes) == 0 || slices.Contains(lexemes, t.Lexeme)
}

// Keyword lexemes. Only "let" is recognized by the parser; the rest are
// reserved.
const (
	KeywordLet   = "let"
	KeywordIf    = "if"
	KeywordElse  = "else"
	KeywordWhile = "while"
	KeywordFor   = "for"
)

//nolint:gochecknoglobals
var keywords = []string{
	KeywordLet, KeywordIf, KeywordElse, KeywordWhile, KeywordFor,
}

// Keywords returns the reserved words of the language.
func Keywords() []string { return slices.Clone(keywords) }

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool { return slices.Contains(keywords, s) }
