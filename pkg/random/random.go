// Package random provides the seeded random source that drives every
// stochastic decision in a word-cloud run.
//
// All randomness in a run flows through a single [Source]. Using one stream
// means that the same seed, word table, and configuration always reproduce the
// same placements, orientations, and colors. [Locked] serializes access with a
// mutex so that concurrent callers (for example, tokenization workers) cannot
// corrupt the stream, although they can still reorder it.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the random number contract consumed by the engine.
//
// Implementations must be safe for concurrent use. No method blocks beyond
// acquiring an internal lock and no method fails.
type Source interface {
	// Float returns a uniform value in [0, 1).
	Float() float64
	// FloatRange returns a uniform value in [min, max).
	FloatRange(min, max float64) float64
	// IntRange returns a uniform integer in [min, max). If max <= min it returns min.
	IntRange(min, max int) int
	// Quadrant returns one of 0, 90, 180 or 270.
	Quadrant() float64
	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
	// Swap performs one Fisher–Yates pass over n elements, calling swap for each exchange.
	Swap(n int, swap func(i, j int))
}

// Locked is a mutex-guarded PCG generator.
type Locked struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed uint64
}

// New creates a Locked source seeded with seed.
// The same seed always produces the same sequence.
func New(seed uint64) *Locked {
	return &Locked{
		rng:  rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		seed: seed,
	}
}

// TimeSeed returns a seed derived from the wall clock, for runs that do not
// request reproducibility.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Seed returns the seed the source was created with.
func (l *Locked) Seed() uint64 { return l.seed }

func (l *Locked) Float() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *Locked) FloatRange(min, max float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.rng.Float64()*(max-min)
}

func (l *Locked) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.rng.IntN(max-min)
}

func (l *Locked) Quadrant() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.rng.IntN(4) * 90)
}

func (l *Locked) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Perm(n)
}

// Swap holds the lock for the whole pass so a shuffle consumes a contiguous
// run of the stream.
func (l *Locked) Swap(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := l.rng.IntN(i + 1)
		swap(i, j)
	}
}

// Shuffle randomizes s in place using src and returns the same slice.
func Shuffle[T any](src Source, s []T) []T {
	src.Swap(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
	return s
}

// Pick returns a uniformly chosen element of s. It panics if s is empty.
func Pick[T any](src Source, s []T) T {
	return s[src.IntRange(0, len(s))]
}

var _ Source = (*Locked)(nil)
