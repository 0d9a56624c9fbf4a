package service

import (
	"sync"

	"github.com/google/uuid"
)

// productLocks serializes submissions per product id while letting submissions
// against different products run concurrently. Locks are created on first use
// and kept for the process lifetime; the map is bounded by the catalog size.
type productLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *productLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}
