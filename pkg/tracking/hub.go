package tracking

import (
	"sync"

	"github.com/m2-berezin/safedine-app/pkg/orderfeed"
)

type (
	// Hub fans order feed events out to live subscriptions. One hub per
	// process; the feed consumer calls Dispatch for every event.
	Hub struct {
		mu   sync.Mutex
		subs map[*Subscription]struct{}
	}

	// Subscription couples a tracker with a push callback. Close is safe
	// to call any number of times.
	Subscription struct {
		hub     *Hub
		tracker *Tracker
		notify  func()
		once    sync.Once
	}
)

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a tracker; notify fires after every event that
// changed the tracker's list.
func (h *Hub) Subscribe(tracker *Tracker, notify func()) *Subscription {
	sub := &Subscription{hub: h, tracker: tracker, notify: notify}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Dispatch applies the event to every live subscription.
func (h *Hub) Dispatch(event orderfeed.Event) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if sub.tracker.Apply(event) && sub.notify != nil {
			sub.notify()
		}
	}
}

func (s *Subscription) Tracker() *Tracker {
	return s.tracker
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
	})
}
