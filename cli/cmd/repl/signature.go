package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/quill/lang"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string
	argIndex int  // current argument index (0-based)
	inCall   bool // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// the argument list of a call to a named callee.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward for the unmatched '(' nearest to the cursor.
	depth := 0
	open := -1

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	// The callee is the identifier ending right before the '('.
	name, _, _ := wordBounds(input[:open], open)
	if name == "" {
		return functionCall{}
	}

	if r, _ := utf8.DecodeRuneInString(name); r >= '0' && r <= '9' {
		return functionCall{}
	}

	// Count commas at depth 0 between the '(' and the cursor.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signature returns the parameter names of the callable bound to name, and
// false if name is unbound or not a function.
func signature(env *lang.Env, name string) ([]string, bool) {
	v, err := env.Lookup(name)
	if err != nil {
		return nil, false
	}

	switch fn := v.(type) {
	case lang.NativeFunction:
		return fn.ID.Params(), true
	case lang.Function:
		return fn.Params, true
	}

	return nil, false
}

// renderSignatureHint renders the signature of name with the parameter at
// argIdx highlighted. A variadic parameter stays highlighted for every
// argument at or beyond its index.
func renderSignatureHint(name string, params []string, argIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if (variadic && argIdx >= i) || (!variadic && argIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
