package log

import (
	"io"
	"sync"
)

// Option applies a configuration option to config.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// locked runs fn on c while holding its write lock, allocating a mutex for
// zero-value configs.
func locked(c config, fn func(*config)) config {
	if c.mutex == nil {
		c.mutex = &sync.RWMutex{}
	} else {
		c.mutex.Lock()
		defer c.mutex.Unlock()
	}

	fn(&c)

	return c
}

// WithDefaults returns an option that resets every setting to its default and
// directs output to w. A nil writer discards output.
func WithDefaults(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		return locked(c, func(c *config) {
			c.output = w
			c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
			c.level = DefaultLevel
			c.format = DefaultFormat
			c.caller = DefaultCaller
			c.pretty = DefaultPretty
		})
	}
}

// WithOutput returns an option that sets the output writer.
// A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		return locked(c, func(c *config) { c.output = w })
	}
}

// WithLevel returns an option that sets the minimum log level.
func WithLevel(level Level) Option {
	return func(c config) config {
		return locked(c, func(c *config) { c.level = level })
	}
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return func(c config) config {
		return locked(c, func(c *config) { c.format = format })
	}
}

// WithTimeLayout returns an option that sets the timestamp layout.
//
// Named layouts from the [time] package are matched case-insensitively
// ignoring punctuation ("RFC3339", "rfc-3339", ...). Any other string is used
// verbatim. An empty layout or "none" disables timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		format := makeFormatTimeFunc(layout)

		return locked(c, func(c *config) { c.formatTime = format })
	}
}

// WithCaller returns an option that controls whether the source location of
// the log call is included.
func WithCaller(enable bool) Option {
	return func(c config) config {
		return locked(c, func(c *config) { c.caller = enable })
	}
}

// WithPretty returns an option that controls colorized text output.
// It has no effect on [FormatJSON].
func WithPretty(enable bool) Option {
	return func(c config) config {
		return locked(c, func(c *config) { c.pretty = enable })
	}
}
