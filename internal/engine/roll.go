package engine

import (
	"math/rand"
	"sync"
)

// Roller is the random source used for damage, critical and heal draws.
// *rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
	Float64() float64
}

// lockedRoller serializes access to a *rand.Rand, which is not safe for
// concurrent use. Different battles resolve in parallel and share one
// source.
type lockedRoller struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewLockedRoller wraps src so it can be shared across goroutines.
func NewLockedRoller(src *rand.Rand) Roller {
	return &lockedRoller{src: src}
}

func (r *lockedRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}
