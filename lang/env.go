package lang

import (
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/ardnew/quill/log"
)

// Env is the single flat table binding names to values.
//
// Every statement of a program, including those inside nested blocks, reads
// and writes the same table. An Env is not safe for concurrent use.
type Env struct {
	vars   map[string]Value
	out    io.Writer
	logger log.Logger
}

// NewEnv returns an Env holding every native function.
// Native output goes to [os.Stdout] unless [WithOutput] is given.
func NewEnv(opts ...Option) *Env {
	o := makeOptions(opts...)

	if o.output == nil {
		o.output = os.Stdout
	}

	env := &Env{
		vars:   make(map[string]Value, len(natives)),
		out:    o.output,
		logger: o.logger,
	}

	for id := range natives {
		env.vars[natives[id].name] = NativeFunction{ID: NativeID(id)}
	}

	return env
}

// Declare binds a new name. It fails with [ErrAlreadyDeclared] if the name
// is bound.
func (e *Env) Declare(name string, v Value) error {
	if _, ok := e.vars[name]; ok {
		return ErrAlreadyDeclared.Detailf("'%s' is already declared", name)
	}

	e.vars[name] = Clone(v)

	e.logger.Trace("declare",
		slog.String("name", name),
		slog.String("type", v.TypeName()))

	return nil
}

// Assign rebinds an existing name. It fails with [ErrUndefinedName] if the
// name was never declared.
func (e *Env) Assign(name string, v Value) error {
	if _, ok := e.vars[name]; !ok {
		return ErrUndefinedName.Detailf("'%s' is undefined", name)
	}

	e.vars[name] = Clone(v)

	e.logger.Trace("assign",
		slog.String("name", name),
		slog.String("type", v.TypeName()))

	return nil
}

// Lookup returns a copy of the value bound to name. It fails with
// [ErrUndefinedName] if the name is unbound.
func (e *Env) Lookup(name string) (Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return nil, ErrUndefinedName.Detailf("'%s' is undefined", name)
	}

	return Clone(v), nil
}

// Names returns every bound name in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Len returns the number of bindings.
func (e *Env) Len() int { return len(e.vars) }

// Output returns the writer native functions print to.
func (e *Env) Output() io.Writer { return e.out }
