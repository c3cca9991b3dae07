package ty

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLazyNotFound is returned by LazyMap.Get for unknown keys.
var ErrLazyNotFound = errors.New("not found")

// Lazy is a function that returns a value of type T, computing it only once.
type Lazy[T interface{}] func() (T, error)

// GetLazy returns a Lazy function that memoizes the first successful result
// of the provided function. Failures are not cached. Safe for concurrent use.
func GetLazy[T interface{}](lazy func() (T, error)) Lazy[T] {
	var (
		mu    sync.Mutex
		done  bool
		cache T
	)
	return func() (T, error) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return cache, nil
		}
		value, err := lazy()
		if err != nil {
			var zero T
			return zero, err
		}
		cache = value
		done = true
		return cache, nil
	}
}

// LazyMap is a map of strings to Lazy values.
type LazyMap[K ~string, V interface{}] map[K]Lazy[V]

// Get retrieves the value associated with key, computing it if necessary.
func (lm LazyMap[K, V]) Get(key K) (V, error) {
	val, ok := lm[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s", ErrLazyNotFound, string(key))
	}
	return val()
}
