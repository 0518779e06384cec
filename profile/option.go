//go:build pprof

package profile

import "github.com/pkg/profile"

// control accumulates the options passed to [profile.Start].
type control struct {
	mode []func(*profile.Profile)
}

// Option applies a configuration option to control.
type Option func(control) control

// apply applies multiple options to a control.
func apply(c control, opts ...Option) control {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// newControl creates a new control with the provided options.
func newControl(opts ...Option) control {
	var c control

	return apply(c, opts...)
}

func withMode(m string) Option {
	return func(c control) control {
		if fn, ok := mode[m]; ok {
			c.mode = append(c.mode, fn)
		}

		return c
	}
}

func withPath(p string) Option {
	return func(c control) control {
		if p != "" {
			c.mode = append(c.mode, profile.ProfilePath(p))
		}

		return c
	}
}

func withQuiet(v bool) Option {
	return func(c control) control {
		if v {
			c.mode = append(c.mode, profile.Quiet)
		}

		return c
	}
}

// withNoShutdownHook leaves interrupt handling to the caller, which stops the
// profiler when its context ends.
func withNoShutdownHook() Option {
	return func(c control) control {
		c.mode = append(c.mode, profile.NoShutdownHook)

		return c
	}
}
