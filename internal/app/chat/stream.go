/*
Package chat contains the core logic of the group-chat backend.

This file defines the Feed, a fan-out of newly appended messages to live
subscribers. Delivery is best-effort: a subscriber whose buffer is full misses
the message and is expected to re-sync through the polling endpoint.
*/
package chat

import (
	"sync"

	"batepapo/internal/pkg/logx"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 64

// Feed tracks live subscribers and pushes each appended message to every
// subscriber allowed to see it.
type Feed struct {
	// mu protects access to the subs map.
	mu sync.RWMutex

	subs map[*Subscriber]struct{}
}

// Subscriber is one live consumer of the feed, bound to a viewer name that
// drives visibility filtering.
type Subscriber struct {
	viewer string
	ch     chan Message
}

// NewFeed constructs an empty Feed.
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber viewing the log as viewer.
func (f *Feed) Subscribe(viewer string) *Subscriber {
	sub := &Subscriber{
		viewer: viewer,
		ch:     make(chan Message, subscriberBuffer),
	}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (f *Feed) Unsubscribe(sub *Subscriber) {
	f.mu.Lock()
	_, ok := f.subs[sub]
	if ok {
		delete(f.subs, sub)
	}
	f.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// C is the subscriber's receive channel. It is closed on Unsubscribe.
func (s *Subscriber) C() <-chan Message {
	return s.ch
}

// publish pushes m to every subscriber that may see it, without blocking.
func (f *Feed) publish(m Message) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subs {
		if !m.VisibleTo(sub.viewer) {
			continue
		}

		select {
		case sub.ch <- m:
		default:
			logx.Warn("Feed subscriber buffer full, message dropped.", "viewer", sub.viewer, "message_id", m.ID)
		}
	}
}
