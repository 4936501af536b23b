// Package profile profiles the tuplet interpreter with [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]). Without
// it, [Modes] is empty and [Profiler.Start] returns a no-op [Stopper], so the
// command line can always call:
//
//	defer profile.New(profile.WithMode(mode), profile.WithPath(dir)).Start().Stop()
//
// # Modes
//
// [Modes] lists the supported modes: allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread and trace. Each writes <mode>.pprof (or trace.out)
// into the output directory.
//
// # Command Line
//
// A binary built with -tags pprof accepts --pprof-mode and --pprof-dir:
//
//	tuplet --pprof-mode cpu run testdata/corpus/99-sort-list.tpl
//	go tool pprof -http=: tuplet ~/.cache/tuplet/pprof/cpu.pprof
//
// The tree-walking evaluator spends most of its time in expression dispatch
// and environment lookup; cpu and allocs are the useful modes for it. Use
// trace only on short programs since its overhead is high.
package profile
