package watch

import "sync/atomic"

// Generation numbers successive requests so that a result arriving after a
// newer request was made can be recognized and dropped.
type Generation struct {
	n atomic.Uint64
}

// Next starts a request and returns its number.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current reports whether id is still the newest request.
func (g *Generation) Current(id uint64) bool {
	return g.n.Load() == id
}
