// Package memory is an in-process room store used by tests and the simulator.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cribbage/internal/ports"
	"cribbage/internal/snapshot"
)

const subscriberBuffer = 16

// Hub stores the latest snapshot of one room and fans pushes out to subscribers.
// Snapshots are stored as encoded bytes so no replica shares memory with another.
type Hub struct {
	mu          sync.RWMutex
	latest      []byte
	subscribers map[string]chan *snapshot.Snapshot
}

var _ ports.SyncPort = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan *snapshot.Snapshot)}
}

// Push validates and stores the snapshot, then delivers a copy to every
// subscriber. A subscriber whose buffer is full misses the update and must Receive.
func (h *Hub) Push(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.Validate(snap); err != nil {
		return err
	}
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for _, ch := range h.subscribers {
		own, err := snapshot.Unmarshal(data)
		if err != nil {
			return err
		}
		select {
		case ch <- own:
		default:
		}
	}
	return nil
}

// Receive returns a private copy of the latest snapshot.
func (h *Hub) Receive(ctx context.Context) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	data := h.latest
	h.mu.RUnlock()
	if data == nil {
		return nil, ports.ErrNoSnapshot
	}
	return snapshot.Unmarshal(data)
}

// Subscribe registers a buffered channel that receives every later push.
func (h *Hub) Subscribe(ctx context.Context) (<-chan *snapshot.Snapshot, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	id := uuid.NewString()
	ch := make(chan *snapshot.Snapshot, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers reports how many subscriptions are open.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
