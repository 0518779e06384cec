package lang

import (
	"context"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Operand precedence levels used to decide where parentheses are required.
const (
	precAssignment = iota
	precAdditive
	precMultiplicative
	precPrimary
)

// Format writes program in canonical quill syntax to w, one top-level
// statement per line.
//
// Blocks are broken over lines and indented by indent spaces; an indent of 0
// keeps every block on a single line. Comments are not part of the tree and
// are therefore not reproduced. Parsing the output yields a tree equal to
// program.
func Format(_ context.Context, w io.Writer, program *Scope, indent int) error {
	f := formatter{indent: strings.Repeat(" ", max(indent, 0))}

	var sb strings.Builder

	for _, stmt := range f.statements(program.Body, 0) {
		sb.WriteString(stmt)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

type formatter struct {
	indent string
}

// statements renders each node of body at the given block depth.
//
// Without a separator token, a statement ending in a name followed by one
// starting with "(" would parse as a call, so that trailing name is
// parenthesized.
func (f formatter) statements(body []Node, depth int) []string {
	out := make([]string, len(body))

	for i, stmt := range body {
		out[i] = f.node(stmt, precAssignment, depth)
	}

	for i := range len(out) - 1 {
		if strings.HasPrefix(out[i+1], "(") {
			out[i] = guardTrailingName(out[i])
		}
	}

	return out
}

// node renders n, wrapping it in parentheses if it binds looser than least.
func (f formatter) node(n Node, least, depth int) string {
	s := f.render(n, depth)
	if precedence(n) < least {
		return "(" + s + ")"
	}

	return s
}

func (f formatter) render(n Node, depth int) string {
	switch n := n.(type) {
	case *StringLiteral:
		return strconv.Quote(n.Value)

	case *IntegerLiteral:
		return n.Value.String()

	case *FloatLiteral:
		s := strconv.FormatFloat(n.Value, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}

		return s

	case *Identifier:
		return n.Name

	case *BinaryExpression:
		prec := precedence(n)

		return f.node(n.Left, prec, depth) + " " + string(n.Operator) + " " +
			f.node(n.Right, prec+1, depth)

	case *AssignmentExpression:
		op := "="
		if n.Operator != '=' {
			op = string(n.Operator) + "="
		}

		return f.node(n.Target, precAdditive, depth) + " " + op + " " +
			f.node(n.Value, precAdditive, depth)

	case *VariableDeclaration:
		return KeywordLet + " " + f.node(n.Target, precAdditive, depth) +
			" = " + f.node(n.Value, precAdditive, depth)

	case *Scope:
		return f.block(n, depth)

	case *FunctionCall:
		return f.node(n.Callee, precPrimary, depth) + f.render(n.Arguments, depth)

	case *Arguments:
		args := make([]string, len(n.Values))
		for i, v := range n.Values {
			args[i] = f.node(v, precAssignment, depth)
		}

		return "(" + strings.Join(args, ", ") + ")"

	default:
		return ""
	}
}

func (f formatter) block(n *Scope, depth int) string {
	if len(n.Body) == 0 {
		return "{}"
	}

	body := f.statements(n.Body, depth+1)

	if f.indent == "" {
		return "{ " + strings.Join(body, " ") + " }"
	}

	pad := strings.Repeat(f.indent, depth+1)

	var sb strings.Builder

	sb.WriteString("{\n")

	for _, stmt := range body {
		sb.WriteString(pad)
		sb.WriteString(stmt)
		sb.WriteByte('\n')
	}

	sb.WriteString(strings.Repeat(f.indent, depth))
	sb.WriteByte('}')

	return sb.String()
}

func precedence(n Node) int {
	switch n := n.(type) {
	case *AssignmentExpression, *VariableDeclaration:
		return precAssignment
	case *BinaryExpression:
		if n.Operator == '+' || n.Operator == '-' {
			return precAdditive
		}

		return precMultiplicative
	default:
		return precPrimary
	}
}

// guardTrailingName wraps the identifier ending s, if any, in parentheses.
func guardTrailingName(s string) string {
	i := len(s)

	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !isIdentifierPart(r) {
			break
		}

		i -= size
	}

	word := s[i:]
	if word == "" {
		return s
	}

	if first, _ := utf8.DecodeRuneInString(word); !isIdentifierStart(first) {
		return s
	}

	return s[:i] + "(" + word + ")"
}
