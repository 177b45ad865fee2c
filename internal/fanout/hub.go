// Package fanout delivers domain events to the channels subscribed to a
// room, or to every connected channel.
package fanout

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

// Subscriber is one connected channel. Deliver must not block: slow
// channels are expected to buffer or drop themselves.
type Subscriber interface {
	ID() string
	Deliver(evt domain.Event) error
}

// Scope selects the recipients of an event.
type Scope struct {
	all    bool
	roomID string
	except Subscriber
}

// All targets every registered subscriber.
func All() Scope { return Scope{all: true} }

// Room targets the subscribers of roomID.
func Room(roomID string) Scope { return Scope{roomID: roomID} }

// Except leaves sub out of the scope.
func (s Scope) Except(sub Subscriber) Scope {
	s.except = sub
	return s
}

type Hub struct {
	mu    sync.RWMutex
	all   map[Subscriber]struct{}
	rooms map[string]map[Subscriber]struct{} // roomID -> set of subscribers
}

func NewHub() *Hub {
	return &Hub{
		all:   make(map[Subscriber]struct{}),
		rooms: make(map[string]map[Subscriber]struct{}),
	}
}

// Register makes sub a recipient of global events.
func (h *Hub) Register(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[sub] = struct{}{}
}

// Unregister forgets sub everywhere.
func (h *Hub) Unregister(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.all, sub)
	for roomID, rs := range h.rooms {
		delete(rs, sub)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Subscribe(roomID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[roomID]
	if !ok {
		rs = make(map[Subscriber]struct{})
		h.rooms[roomID] = rs
	}
	rs[sub] = struct{}{}
}

func (h *Hub) Unsubscribe(roomID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rs, ok := h.rooms[roomID]; ok {
		delete(rs, sub)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Subscribers reports how many channels listen to roomID.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Publish delivers evt to every subscriber in scope, best-effort.
// Deliveries happen outside the hub lock so a subscriber may unregister
// itself from inside Deliver.
func (h *Hub) Publish(evt domain.Event, scope Scope) {
	h.mu.RLock()
	set := h.all
	if !scope.all {
		set = h.rooms[scope.roomID]
	}
	targets := make([]Subscriber, 0, len(set))
	for sub := range set {
		if sub != scope.except {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if err := deliver(sub, evt); err != nil {
			slog.Warn("fanout deliver failed",
				"event", evt.Type(),
				"room", scope.roomID,
				"subscriber", sub.ID(),
				"err", err)
		}
	}
}

func deliver(sub Subscriber, evt domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deliver panic: %v", r)
		}
	}()
	return sub.Deliver(evt)
}
