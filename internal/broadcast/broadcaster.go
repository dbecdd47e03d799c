package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/safemap/internal/models"
)

// SubscriberBuffer is how many alerts a subscriber may fall behind before
// further alerts are dropped for it.
const SubscriberBuffer = 100

type subscriber struct {
	ch      chan *models.Alert
	minRank int
}

type Subscription struct {
	ID uint64
	C  <-chan *models.Alert
}

type Broadcaster struct {
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	dropped     atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]*subscriber),
	}
}

// Subscribe registers a listener for alerts at or above minSeverity. An empty
// minSeverity receives everything.
func (b *Broadcaster) Subscribe(minSeverity models.AlertSeverity) Subscription {
	id := b.nextID.Add(1)
	sub := &subscriber{
		ch:      make(chan *models.Alert, SubscriberBuffer),
		minRank: minSeverity.Rank(),
	}

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	return Subscription{ID: id, C: sub.ch}
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Broadcast never blocks. It returns how many subscribers received a.
func (b *Broadcaster) Broadcast(a *models.Alert) int {
	rank := a.Severity.Rank()

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subscribers {
		if rank < sub.minRank {
			continue
		}
		select {
		case sub.ch <- a:
			delivered++
		default:
			b.dropped.Add(1)
		}
	}
	return delivered
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped counts alerts skipped because a subscriber's buffer was full.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels so open streams end.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
