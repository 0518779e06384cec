package lang

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// NativeID identifies a built-in function in the native registry.
type NativeID uint8

const (
	NativePrint NativeID = iota
)

// nativeFunc implements a built-in. args holds the evaluated arguments.
type nativeFunc func(ctx context.Context, env *Env, args Array) (Value, error)

//nolint:gochecknoglobals
var natives = [...]struct {
	fn     nativeFunc
	name   string
	params []string
}{
	NativePrint: {name: "print", params: []string{"...values"}, fn: nativePrint},
}

// Name returns the name a built-in is bound to in a new [Env].
func (id NativeID) Name() string {
	if int(id) < len(natives) {
		return natives[id].name
	}

	return fmt.Sprintf("native#%d", id)
}

// Params returns the parameter names of a built-in for display. A name
// prefixed with "..." accepts any number of arguments.
func (id NativeID) Params() []string {
	if int(id) < len(natives) {
		return slices.Clone(natives[id].params)
	}

	return nil
}

// LookupNative returns the built-in bound to name.
func LookupNative(name string) (NativeID, bool) {
	for id, n := range natives {
		if n.name == name {
			return NativeID(id), true
		}
	}

	return 0, false
}

// call invokes the built-in identified by id.
func (id NativeID) call(ctx context.Context, env *Env, args Array) (Value, error) {
	if int(id) >= len(natives) {
		return nil, ErrUnknownNative.Detailf("unknown native function %d", id)
	}

	env.logger.TraceContext(ctx, "native call",
		slog.String("name", id.Name()),
		slog.Int("arg_count", len(args)))

	return natives[id].fn(ctx, env, args)
}

// nativePrint writes its arguments separated by ", " on one line.
func nativePrint(_ context.Context, env *Env, args Array) (Value, error) {
	if _, err := fmt.Fprintln(env.out, joinValues(args, ", ")); err != nil {
		return nil, ErrWriteOutput.Wrap(err)
	}

	return Null{}, nil
}
