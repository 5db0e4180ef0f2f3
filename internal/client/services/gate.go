package services

import (
	"context"
	"sync"
)

// keyedGate admits one holder per key. Later callers for the same key wait
// in Acquire until the holder releases.
type keyedGate struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func newKeyedGate() *keyedGate {
	return &keyedGate{held: make(map[string]chan struct{})}
}

func (g *keyedGate) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		g.mu.Lock()
		wait, busy := g.held[key]
		if !busy {
			ch := make(chan struct{})
			g.held[key] = ch
			g.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					g.mu.Lock()
					delete(g.held, key)
					g.mu.Unlock()
					close(ch)
				})
			}, nil
		}
		g.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
