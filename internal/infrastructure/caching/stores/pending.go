// Package stores provides concrete cache store implementations with TTL
// expiry and request coalescing.
//
// Every store follows the same state machine per key: empty, fetching,
// ready, stale. TTL expiry is checked lazily at access time; there is no
// background eviction. While a fetch is in flight, callers for the same key
// attach to it instead of issuing duplicate upstream requests. A failed
// fetch rejects every attached caller and leaves the key empty so the next
// access retries from scratch. Started fetches are never cancelled; clearing
// a store only detaches it from the in-flight result.
package stores

// pending is a single in-flight fetch that concurrent callers attach to.
// value and err are written exactly once, before done is closed.
type pending[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newPending[T any]() *pending[T] {
	return &pending[T]{done: make(chan struct{})}
}

// resolve publishes the fetch outcome to every waiter.
func (p *pending[T]) resolve(value T, err error) {
	p.value = value
	p.err = err
	close(p.done)
}

// wait blocks until the fetch resolves.
func (p *pending[T]) wait() (T, error) {
	<-p.done
	return p.value, p.err
}
