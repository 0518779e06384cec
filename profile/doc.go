// Package profile provides optional runtime profiling for quill.
//
// Profiling is backed by [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag:
//
//	go build -tags pprof ./...
//
// Without the tag, [Profiler.Start] always returns a no-op handle and [Modes]
// is empty, so the profiler costs nothing in release builds.
//
// # Modes
//
// When built with the tag, the following modes are supported:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	ctrl := p.Start()
//	defer ctrl.Stop()
//
// The quill command exposes the same settings as flags:
//
//	quill --pprof-mode cpu run program.ql
//	quill --pprof-mode heap --pprof-dir ./profiles run program.ql
//
// Profiles are written to the cache directory by default and can be inspected
// with "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
