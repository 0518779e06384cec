package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ExportTokens converts tokens to plain maps for serialization.
func ExportTokens(tokens []Token) []map[string]any {
	out := make([]map[string]any, len(tokens))

	for i, tok := range tokens {
		out[i] = map[string]any{
			"kind":   tok.Kind.String(),
			"value":  tok.Lexeme,
			"line":   tok.Pos.Line,
			"column": tok.Pos.Column,
		}
	}

	return out
}

// ExportAST converts the tree rooted at node to nested plain maps for
// serialization. Every map has a "kind" naming the node variant.
func ExportAST(node Node) map[string]any {
	if node == nil {
		return nil
	}

	m := map[string]any{
		"kind":   NodeKind(node),
		"line":   node.Position().Line,
		"column": node.Position().Column,
	}

	switch n := node.(type) {
	case *StringLiteral:
		m["value"] = n.Value

	case *IntegerLiteral:
		if v, ok := n.Value.Int64(); ok {
			m["value"] = v
		} else {
			m["value"] = n.Value.String()
		}

	case *FloatLiteral:
		m["value"] = n.Value

	case *Identifier:
		m["value"] = n.Name

	case *BinaryExpression:
		m["left"] = ExportAST(n.Left)
		m["operand"] = string(n.Operator)
		m["right"] = ExportAST(n.Right)

	case *AssignmentExpression:
		m["name"] = ExportAST(n.Target)
		m["operand"] = string(n.Operator)
		m["value"] = ExportAST(n.Value)

	case *VariableDeclaration:
		m["name"] = ExportAST(n.Target)
		m["value"] = ExportAST(n.Value)

	case *Scope:
		m["body"] = exportNodes(n.Body)

	case *Arguments:
		m["values"] = exportNodes(n.Values)

	case *FunctionCall:
		m["callee"] = ExportAST(n.Callee)

		if n.Arguments != nil {
			m["arguments"] = ExportAST(n.Arguments)
		}
	}

	return m
}

func exportNodes(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ExportAST(n)
	}

	return out
}

// WriteJSON writes v as JSON followed by a newline. A positive indent
// pretty-prints with that many spaces per level.
func WriteJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// WriteYAML writes v as YAML. A positive indent uses block style with that
// many spaces per level; otherwise flow style is used.
func WriteYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
