// Package dedupe collapses concurrent loads of the same key. Polling clients
// hit the same battle at the same time; only one repository read runs per
// key while the other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// Group is a typed singleflight group. Each owner keeps its own Group so
// keys from different stores never share a result. The zero value is ready
// to use.
type Group[T any] struct {
	g singleflight.Group
}

// Do runs fn once per key among concurrent callers and hands every caller
// the same result.
func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error) {
	v, err, _ := g.g.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
