package services

import "sync/atomic"

// FetchGuard hands out monotonically increasing fetch tokens so overlapping
// refreshes can discard results that arrive out of order. Only the result
// carrying the latest token may be applied.
type FetchGuard struct {
	seq atomic.Uint64
}

// Begin starts a new fetch and returns its token. Any earlier in-flight
// fetch becomes stale.
func (g *FetchGuard) Begin() uint64 {
	return g.seq.Add(1)
}

// Current reports whether the token still belongs to the latest fetch.
func (g *FetchGuard) Current(token uint64) bool {
	return g.seq.Load() == token
}
