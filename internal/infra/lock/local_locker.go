// Package lock serializes appointment booking per slot.
package lock

import (
	"context"
	"sync"

	"bloodlink/internal/domain/service"
)

type keyLock struct {
	ch   chan struct{}
	refs int
}

// localLocker is a keyed mutex for a single API process.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewLocalLocker creates an in-process SlotLocker.
func NewLocalLocker() service.SlotLocker {
	return &localLocker{locks: make(map[string]*keyLock)}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)

		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

func (l *localLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
