package lang

// Node is an element of the syntax tree produced by [Parse].
//
// The set of implementations is closed; every consumer switches over the
// concrete pointer types below. Trees are never mutated after parsing.
type Node interface {
	Position() Pos
	node()
}

// StringLiteral is a literal text value.
type StringLiteral struct {
	Value string
	Pos   Pos
}

// IntegerLiteral is a literal 128-bit integer.
type IntegerLiteral struct {
	Value Int128
	Pos   Pos
}

// FloatLiteral is a literal 64-bit float.
type FloatLiteral struct {
	Value float64
	Pos   Pos
}

// Identifier is a reference to a bound name.
type Identifier struct {
	Name string
	Pos  Pos
}

// BinaryExpression combines two operands with an arithmetic operator.
// Pos is the position of the operator.
type BinaryExpression struct {
	Left     Node
	Right    Node
	Pos      Pos
	Operator byte
}

// AssignmentExpression stores Value into Target. Operator is '=' for a plain
// assignment or the arithmetic operator of a compound assignment.
// Pos is the position of the assignment operator.
type AssignmentExpression struct {
	Target   Node
	Value    Node
	Pos      Pos
	Operator byte
}

// VariableDeclaration introduces a new binding. Pos is the position of the
// "let" keyword.
type VariableDeclaration struct {
	Target Node
	Value  Node
	Pos    Pos
}

// Scope is a sequence of statements evaluating to the last one.
type Scope struct {
	Body []Node
	Pos  Pos
}

// Arguments is the ordered argument list of a call.
type Arguments struct {
	Values []Node
	Pos    Pos
}

// FunctionCall applies Callee to Arguments.
type FunctionCall struct {
	Callee    Node
	Arguments *Arguments
	Pos       Pos
}

func (n *StringLiteral) Position() Pos        { return n.Pos }
func (n *IntegerLiteral) Position() Pos       { return n.Pos }
func (n *FloatLiteral) Position() Pos         { return n.Pos }
func (n *Identifier) Position() Pos           { return n.Pos }
func (n *BinaryExpression) Position() Pos     { return n.Pos }
func (n *AssignmentExpression) Position() Pos { return n.Pos }
func (n *VariableDeclaration) Position() Pos  { return n.Pos }
func (n *Scope) Position() Pos                { return n.Pos }
func (n *Arguments) Position() Pos            { return n.Pos }
func (n *FunctionCall) Position() Pos         { return n.Pos }

func (*StringLiteral) node()        {}
func (*IntegerLiteral) node()       {}
func (*FloatLiteral) node()         {}
func (*Identifier) node()           {}
func (*BinaryExpression) node()     {}
func (*AssignmentExpression) node() {}
func (*VariableDeclaration) node()  {}
func (*Scope) node()                {}
func (*Arguments) node()            {}
func (*FunctionCall) node()         {}

// NodeKind returns the display name of n's variant.
func NodeKind(n Node) string {
	switch n.(type) {
	case *StringLiteral:
		return "string literal"
	case *IntegerLiteral:
		return "integer literal"
	case *FloatLiteral:
		return "float literal"
	case *Identifier:
		return "identifier"
	case *BinaryExpression:
		return "binary expression"
	case *AssignmentExpression:
		return "assignment expression"
	case *VariableDeclaration:
		return "variable declaration"
	case *Scope:
		return "scope"
	case *Arguments:
		return "arguments"
	case *FunctionCall:
		return "function call"
	default:
		return "unknown"
	}
}
