package chat

import "sync"

// roomLocks hands out one mutex per room so messages in the same room are
// serialized while different rooms proceed in parallel. Locks are never
// evicted; the per-room footprint is a single mutex.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire blocks until the room's lock is held and returns the release func.
func (l *roomLocks) acquire(roomID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
