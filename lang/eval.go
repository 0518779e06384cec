package lang

import (
	"context"
	"log/slog"
	"math"

	"github.com/ardnew/quill/log"
)

// Evaluate walks node against env and returns its value.
//
// Evaluation stops at the first error. Bindings made before the error remain
// in env. A nil env is replaced by [NewEnv]. Cancellation of ctx is observed
// between the statements of every [Scope].
func Evaluate(ctx context.Context, node Node, env *Env, opts ...Option) (Value, error) {
	o := makeOptions(opts...)

	if env == nil {
		env = NewEnv(opts...)
	}

	ev := &evaluator{
		env:      env,
		logger:   o.logger,
		maxDepth: o.maxDepth,
	}

	v, err := ev.eval(ctx, node)
	if err != nil {
		ev.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nil, err
	}

	ev.logger.TraceContext(ctx, "evaluate complete",
		slog.String("type", v.TypeName()))

	return v, nil
}

// evaluator holds the state of one evaluation.
type evaluator struct {
	env      *Env
	logger   log.Logger
	depth    int
	maxDepth int
}

func (ev *evaluator) eval(ctx context.Context, node Node) (Value, error) {
	if node == nil {
		return Null{}, nil
	}

	ev.depth++
	defer func() { ev.depth-- }()

	if ev.depth > ev.maxDepth {
		return nil, ErrRecursionDepth.At(node.Position())
	}

	switch n := node.(type) {
	case *Scope:
		return ev.evalScope(ctx, n)

	case *StringLiteral:
		return String(n.Value), nil

	case *IntegerLiteral:
		return Integer{n.Value}, nil

	case *FloatLiteral:
		return Float(n.Value), nil

	case *Identifier:
		v, err := ev.env.Lookup(n.Name)
		if err != nil {
			return nil, locate(err, n.Pos)
		}

		return v, nil

	case *VariableDeclaration:
		return ev.evalDeclaration(ctx, n)

	case *AssignmentExpression:
		return ev.evalAssignment(ctx, n)

	case *BinaryExpression:
		return ev.evalBinary(ctx, n)

	case *FunctionCall:
		return ev.evalCall(ctx, n)

	case *Arguments:
		args, err := ev.evalArguments(ctx, n)
		if err != nil {
			return nil, err
		}

		return args, nil

	default:
		return nil, ErrUnknownNode.At(node.Position())
	}
}

// evalBinary walks the left spine of an operator chain iteratively, so a
// long flat expression like 1 + 1 + ... + 1 costs one level of depth.
func (ev *evaluator) evalBinary(ctx context.Context, n *BinaryExpression) (Value, error) {
	spine := []*BinaryExpression{n}

	for left, ok := n.Left.(*BinaryExpression); ok; left, ok = left.Left.(*BinaryExpression) {
		spine = append(spine, left)
	}

	acc, err := ev.eval(ctx, spine[len(spine)-1].Left)
	if err != nil {
		return nil, err
	}

	for i := len(spine) - 1; i >= 0; i-- {
		b := spine[i]

		right, err := ev.eval(ctx, b.Right)
		if err != nil {
			return nil, err
		}

		acc, err = binary(b.Operator, acc, right, b.Pos)
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (ev *evaluator) evalScope(ctx context.Context, n *Scope) (Value, error) {
	var result Value = Null{}

	for _, stmt := range n.Body {
		if err := ctx.Err(); err != nil {
			return nil, ErrInterrupted.At(stmt.Position()).Wrap(err)
		}

		v, err := ev.eval(ctx, stmt)
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

func (ev *evaluator) evalDeclaration(
	ctx context.Context,
	n *VariableDeclaration,
) (Value, error) {
	id, ok := n.Target.(*Identifier)
	if !ok {
		return nil, ErrInvalidTarget.At(n.Target.Position()).
			Detailf("cannot declare %s", NodeKind(n.Target))
	}

	v, err := ev.eval(ctx, n.Value)
	if err != nil {
		return nil, err
	}

	if err := ev.env.Declare(id.Name, v); err != nil {
		return nil, locate(err, id.Pos)
	}

	return v, nil
}

func (ev *evaluator) evalAssignment(
	ctx context.Context,
	n *AssignmentExpression,
) (Value, error) {
	id, ok := n.Target.(*Identifier)
	if !ok {
		return nil, ErrInvalidTarget.At(n.Target.Position()).
			Detailf("cannot assign to %s", NodeKind(n.Target))
	}

	v, err := ev.eval(ctx, n.Value)
	if err != nil {
		return nil, err
	}

	if n.Operator != '=' {
		current, err := ev.env.Lookup(id.Name)
		if err != nil {
			return nil, locate(err, id.Pos)
		}

		if v, err = binary(n.Operator, current, v, n.Pos); err != nil {
			return nil, err
		}
	}

	if err := ev.env.Assign(id.Name, v); err != nil {
		return nil, locate(err, id.Pos)
	}

	return v, nil
}

func (ev *evaluator) evalCall(ctx context.Context, n *FunctionCall) (Value, error) {
	callee, err := ev.eval(ctx, n.Callee)
	if err != nil {
		return nil, err
	}

	var native NativeFunction

	switch c := callee.(type) {
	case NativeFunction:
		native = c

	case Function:
		return nil, ErrFunctionCall.At(n.Pos)

	default:
		name := callee.String()
		if id, ok := n.Callee.(*Identifier); ok {
			name = id.Name
		}

		return nil, ErrNotCallable.At(n.Pos).
			Detailf("'%s' is not callable", name)
	}

	args := Array{}

	if n.Arguments != nil {
		v, err := ev.evalArguments(ctx, n.Arguments)
		if err != nil {
			return nil, err
		}

		args = v
	}

	v, err := native.ID.call(ctx, ev.env, args)
	if err != nil {
		return nil, locate(err, n.Pos)
	}

	return v, nil
}

func (ev *evaluator) evalArguments(ctx context.Context, n *Arguments) (Array, error) {
	args := make(Array, 0, len(n.Values))

	for _, arg := range n.Values {
		v, err := ev.eval(ctx, arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	return args, nil
}

// binary applies op to left and right.
//
// Integer operands stay integral for + - * % and for ^ with a non-negative
// exponent. Any float operand promotes both to float. Division always
// yields a float, and % accepts only integers.
func binary(op byte, left, right Value, pos Pos) (Value, error) {
	switch op {
	case '+', '-', '*', '/', '%', '^':
	default:
		return nil, ErrUnknownOperator.At(pos).
			Detailf("unknown operator '%c'", op)
	}

	switch l := left.(type) {
	case Integer:
		switch r := right.(type) {
		case Integer:
			return integerOp(op, l.Int128, r.Int128, pos)
		case Float:
			if op != '%' {
				return floatOp(op, l.Float64(), float64(r)), nil
			}
		}

	case Float:
		switch r := right.(type) {
		case Integer:
			if op != '%' {
				return floatOp(op, float64(l), r.Float64()), nil
			}
		case Float:
			if op != '%' {
				return floatOp(op, float64(l), float64(r)), nil
			}
		}
	}

	return nil, ErrUnsupportedOperand.At(pos).
		Detailf("unsupported operand types for %c: %s and %s",
			op, left.TypeName(), right.TypeName())
}

func integerOp(op byte, a, b Int128, pos Pos) (Value, error) {
	var (
		v  Int128
		ok bool
	)

	switch op {
	case '+':
		v, ok = a.Add(b)
	case '-':
		v, ok = a.Sub(b)
	case '*':
		v, ok = a.Mul(b)
	case '/':
		return Float(a.Float64() / b.Float64()), nil
	case '%':
		if v, ok = a.Rem(b); !ok {
			return nil, ErrModuloByZero.At(pos)
		}
	case '^':
		if b.Sign() < 0 {
			return Float(math.Pow(a.Float64(), b.Float64())), nil
		}

		v, ok = a.Pow(b)
	}

	if !ok {
		return nil, ErrIntegerOverflow.At(pos).
			Detailf("integer overflow in %s %c %s", a, op, b)
	}

	return Integer{v}, nil
}

func floatOp(op byte, a, b float64) Float {
	switch op {
	case '+':
		return Float(a + b)
	case '-':
		return Float(a - b)
	case '*':
		return Float(a * b)
	case '/':
		return Float(a / b)
	default: // '^'
		return Float(math.Pow(a, b))
	}
}
