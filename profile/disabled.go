//go:build !pprof

package profile

// Enabled reports whether profiling support was compiled in.
const Enabled = false

// Modes returns the supported profiling modes, which is none without the
// pprof build tag.
func Modes() []string { return nil }

func start(Profiler) interface{ Stop() } { return ignore{} }
