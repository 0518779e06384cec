package lang

import (
	"io"

	"github.com/ardnew/quill/log"
)

// DefaultMaxDepth bounds parser nesting and evaluator recursion.
const DefaultMaxDepth = 512

// options holds the configuration shared by every pipeline stage.
type options struct {
	output   io.Writer
	logger   log.Logger
	maxDepth int
}

// Option configures tokenizing, parsing, evaluation or a new [Env].
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser and the
// maximum recursion depth of the evaluator. Values below 1 restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithOutput sets where native functions of a new [Env] write.
// A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.output = w
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
