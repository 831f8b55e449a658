// Package xsched is the execution substrate (C1): a chunked parallel
// map that runs identically over a work-stealing goroutine pool or,
// when no pool is available (e.g. a single-threaded WASM host), in
// cooperative single-threaded mode.
package xsched

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// SIMDTier records which vectorized code path the Environment selected
// at construction time. vectorace ships no hand-written SIMD assembly,
// so every tier currently drives the same scalar Go implementation —
// the field exists so algorithms can log which tier they would have
// used and so a future accelerated build can branch on it without
// touching call sites.
type SIMDTier int

const (
	TierScalar SIMDTier = iota
	TierSSE2
	TierAVX2
)

func (t SIMDTier) String() string {
	switch t {
	case TierAVX2:
		return "avx2"
	case TierSSE2:
		return "sse2"
	default:
		return "scalar"
	}
}

// Environment is the single capability-probing entry point a pipeline
// run borrows for its whole lifetime. Probing (worker count, SIMD tier)
// happens once here instead of through process-wide mutable singletons
// (spec.md §9).
type Environment struct {
	// Workers is the number of goroutines ParallelMap may use. Zero or
	// one means single-threaded cooperative execution.
	Workers int
	// SIMD is the feature tier detected for this process.
	SIMD SIMDTier
}

// NewEnvironment probes the host once and returns a ready Environment.
// workers <= 0 selects runtime.NumCPU().
func NewEnvironment(workers int) *Environment {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Environment{
		Workers: workers,
		SIMD:    detectSIMD(),
	}
}

// SingleThreaded returns an Environment that forces the cooperative,
// non-pooled execution path — the browser-main-thread case of spec.md §5.
func SingleThreaded() *Environment {
	return &Environment{Workers: 1, SIMD: detectSIMD()}
}

func detectSIMD() SIMDTier {
	if cpu.X86.HasAVX2 {
		return TierAVX2
	}
	if cpu.X86.HasSSE2 {
		return TierSSE2
	}
	return TierScalar
}
