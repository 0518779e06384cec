package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/quill/log"
)

// Parse builds the program tree from tokens.
//
// A failed top-level statement does not stop parsing: its error is collected
// and the parser resumes at the next statement boundary (a keyword, a token on
// a later line, or the end of input), always consuming at least one token and
// never resuming inside a block the failed statement opened.
// The returned Scope holds every statement that parsed successfully.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Scope, []*Error) {
	o := makeOptions(opts...)

	p := &parser{
		tokens:   tokens,
		maxDepth: o.maxDepth,
		logger:   o.logger,
	}

	program := &Scope{Body: []Node{}, Pos: p.peek().Pos}

	var errs []*Error

	for !p.at(TokenEOF) {
		start := p.pos

		stmt, err := p.parseStatement()
		if err != nil {
			p.logger.TraceContext(ctx, "statement failed", slog.Any("error", err))

			errs = append(errs, err)
			p.recover(start, err)

			continue
		}

		program.Body = append(program.Body, stmt)
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(program.Body)),
		slog.Int("error_count", len(errs)))

	return program, errs
}

// parser holds the parser state.
type parser struct {
	tokens   []Token
	logger   log.Logger
	pos      int
	depth    int
	maxDepth int
}

// recover skips past a failed statement that began at token index start and
// stopped with err.
//
// The failing token is always consumed, unless it is a "let" that can open the
// next statement. Every block the statement left open is then skipped through
// its closing brace, followed by the rest of the line of the last skipped
// token.
func (p *parser) recover(start int, err *Error) {
	if p.pos == start && !p.at(TokenEOF) {
		p.pos++
	}

	for !p.at(TokenEOF) && !err.Pos.before(p.peek().Pos) {
		if p.peek().is(TokenKeyword, KeywordLet) {
			break
		}

		p.pos++
	}

	depth := 0

	for _, tok := range p.tokens[start:p.pos] {
		depth += braceDelta(tok, depth)
	}

	for depth > 0 && !p.at(TokenEOF) {
		depth += braceDelta(p.next(), depth)
	}

	last := p.tokenAt(p.pos - 1)

	for !p.at(TokenEOF) && !p.at(TokenKeyword) &&
		p.peek().Pos.Line <= last.Pos.Line {
		p.pos++
	}
}

// braceDelta returns the change in block depth caused by tok.
func braceDelta(tok Token, depth int) int {
	switch {
	case tok.Kind == TokenOpenBrace:
		return 1
	case tok.Kind == TokenCloseBrace && depth > 0:
		return -1
	default:
		return 0
	}
}

// parseStatement parses: "let" Assignment | Expression.
func (p *parser) parseStatement() (Node, *Error) {
	tok := p.peek()

	if tok.Kind == TokenKeyword {
		if tok.Lexeme != KeywordLet {
			return nil, ErrUnknownKeyword.At(tok.Pos).
				Detailf("unknown keyword '%s'", tok.Lexeme)
		}

		return p.parseDeclaration()
	}

	return p.parseExpression()
}

// parseDeclaration parses: "let" Identifier "=" Additive.
func (p *parser) parseDeclaration() (Node, *Error) {
	let := p.next()

	expr, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	assign, ok := expr.(*AssignmentExpression)
	if !ok || assign.Operator != '=' {
		return nil, ErrExpectedAssignment.At(let.Pos)
	}

	return &VariableDeclaration{
		Target: assign.Target,
		Value:  assign.Value,
		Pos:    let.Pos,
	}, nil
}

func (p *parser) parseExpression() (Node, *Error) {
	return p.parseAssignment()
}

// parseAssignment parses: Additive ( AssignOp Additive )?.
func (p *parser) parseAssignment() (Node, *Error) {
	target, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if !p.at(TokenAssignment) {
		return target, nil
	}

	op := p.next()

	value, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	return &AssignmentExpression{
		Target:   target,
		Value:    value,
		Pos:      op.Pos,
		Operator: op.Lexeme[0],
	}, nil
}

// parseAdditive parses: Multiplicative ( ( "+" | "-" ) Multiplicative )*.
func (p *parser) parseAdditive() (Node, *Error) {
	return p.parseBinary(p.parseMultiplicative, "+", "-")
}

// parseMultiplicative parses: Primary ( ( "*" | "/" | "%" | "^" ) Primary )*.
func (p *parser) parseMultiplicative() (Node, *Error) {
	return p.parseBinary(p.parsePrimary, "*", "/", "%", "^")
}

// parseBinary parses a left-associative chain of operands joined by any of
// the given operators.
func (p *parser) parseBinary(
	operand func() (Node, *Error),
	operators ...string,
) (Node, *Error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.peek().is(TokenOperator, operators...) {
		op := p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpression{
			Left:     left,
			Right:    right,
			Pos:      op.Pos,
			Operator: op.Lexeme[0],
		}
	}

	return left, nil
}

func (p *parser) parsePrimary() (Node, *Error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenInteger:
		p.next()

		v, ok := ParseInt128(tok.Lexeme)
		if !ok {
			return nil, ErrIntegerLiteral.At(tok.Pos).
				Detailf("integer literal %s out of range", tok.Lexeme)
		}

		return &IntegerLiteral{Value: v, Pos: tok.Pos}, nil

	case TokenFloat:
		p.next()

		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, ErrFloatLiteral.At(tok.Pos).Wrap(err)
		}

		return &FloatLiteral{Value: v, Pos: tok.Pos}, nil

	case TokenIdentifier:
		p.next()

		id := &Identifier{Name: tok.Lexeme, Pos: tok.Pos}
		if !p.at(TokenOpenParen) {
			return id, nil
		}

		return p.nested(tok, func() (Node, *Error) {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}

			return &FunctionCall{Callee: id, Arguments: args, Pos: tok.Pos}, nil
		})

	case TokenOpenParen:
		return p.nested(tok, p.parseGroup)

	case TokenOpenBrace:
		return p.nested(tok, p.parseBlock)

	case TokenEOF:
		return nil, ErrUnexpectedToken.At(tok.Pos).
			Detailf("unexpected end of input")

	default:
		return nil, ErrUnexpectedToken.At(tok.Pos).
			Detailf("unexpected %s", tok)
	}
}

// parseGroup parses: "(" Expression ")".
func (p *parser) parseGroup() (Node, *Error) {
	p.next() // skip '('

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenCloseParen {
		return nil, ErrExpectedCloseParen.At(tok.Pos).
			Detailf("expected ')' but found %s", tok)
	}

	p.next()

	return expr, nil
}

// parseBlock parses: "{" Statement* "}".
func (p *parser) parseBlock() (Node, *Error) {
	open := p.next()
	scope := &Scope{Body: []Node{}, Pos: open.Pos}

	for !p.at(TokenCloseBrace) {
		if p.at(TokenEOF) {
			return nil, ErrExpectedCloseBrace.At(p.peek().Pos).
				Detailf("expected '}' to close block opened at %s", open.Pos)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		scope.Body = append(scope.Body, stmt)
	}

	p.next()

	return scope, nil
}

// parseArguments parses: "(" ( Expression ( "," Expression )* )? ")".
func (p *parser) parseArguments() (*Arguments, *Error) {
	open := p.next()
	args := &Arguments{Values: []Node{}, Pos: open.Pos}

	if p.at(TokenCloseParen) {
		p.next()

		return args, nil
	}

	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		args.Values = append(args.Values, expr)

		switch tok := p.peek(); tok.Kind {
		case TokenCloseParen:
			p.next()

			return args, nil

		case TokenComma:
			p.next()

			if next := p.peek(); next.Kind == TokenCloseParen ||
				next.Kind == TokenEOF {
				return nil, ErrDanglingComma.At(next.Pos)
			}

		default:
			return nil, ErrExpectedCloseParen.At(tok.Pos).
				Detailf("expected ',' or ')' but found %s", tok)
		}
	}
}

// nested runs fn one level deeper, failing once the maximum depth is exceeded.
func (p *parser) nested(tok Token, fn func() (Node, *Error)) (Node, *Error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		return nil, ErrNestingDepth.At(tok.Pos)
	}

	return fn()
}

// Helper methods

func (p *parser) tokenAt(i int) Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}

	// Tolerate token slices lacking the EOF terminator.
	var pos Pos
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Pos
	}

	return Token{Kind: TokenEOF, Pos: pos}
}

func (p *parser) peek() Token {
	return p.tokenAt(p.pos)
}

func (p *parser) next() Token {
	tok := p.peek()

	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.peek().Kind == kind
}
