// Package pubsub fans each published snapshot out to all connected
// subscribers without letting a slow consumer block the simulator.
package pubsub

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultBufferSize is the per-subscriber queue depth.
const DefaultBufferSize = 8

// Subscriber is one live feed. Receive from C; snapshots are dropped
// oldest-first if the subscriber falls behind, so the channel always
// converges on the latest state.
type Subscriber struct {
	ID     string
	UserID string
	C      chan *Snapshot
	ctx    context.Context
	cancel context.CancelFunc
}

func newSubscriber(userID string, buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscriber{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      make(chan *Snapshot, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Broadcaster delivers each published snapshot to every current
// subscriber. Publish holds the read lock while Unsubscribe takes the
// write lock, so a handle being removed can never race an in-flight
// delivery.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	buffer      int
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Broadcaster{
		subscribers: make(map[string]*Subscriber),
		buffer:      buffer,
	}
}

func (b *Broadcaster) Subscribe(userID string) *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber(userID, b.buffer)
	b.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe removes the handle and closes its channel. The handle
// receives nothing further; unsubscribing an unknown ID is a no-op.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	sub.cancel()
	close(sub.C)
}

// Publish delivers the snapshot to every subscriber without blocking.
// A full queue drops its oldest snapshot to make room for the newest,
// so a stalled consumer only ever misses intermediate states.
func (b *Broadcaster) Publish(s *Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}

		select {
		case sub.C <- s:
		default:
			// Queue full: drop the oldest, then try once more. If a
			// concurrent receive beat us to it the send just succeeds.
			select {
			case <-sub.C:
			default:
			}
			select {
			case sub.C <- s:
			default:
			}
		}
	}
}

func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close unsubscribes everyone.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		sub.cancel()
		close(sub.C)
	}
}
