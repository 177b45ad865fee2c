package fanout

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

type recorder struct {
	id   string
	fail bool

	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) Deliver(evt domain.Event) error {
	if r.fail {
		return errors.New("buffer full")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) got() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func TestHub_RoomScope(t *testing.T) {
	h := NewHub()
	a, b, c := &recorder{id: "a"}, &recorder{id: "b"}, &recorder{id: "c"}
	for _, s := range []*recorder{a, b, c} {
		h.Register(s)
	}
	h.Subscribe("r1", a)
	h.Subscribe("r1", b)
	h.Subscribe("r2", c)

	evt := domain.MessageCreated{Message: domain.Message{ID: "m1", RoomID: "r1"}}
	h.Publish(evt, Room("r1"))

	require.Equal(t, []domain.Event{evt}, a.got())
	require.Equal(t, []domain.Event{evt}, b.got())
	require.Empty(t, c.got())
}

func TestHub_ExceptSkipsJoiner(t *testing.T) {
	h := NewHub()
	a, b := &recorder{id: "a"}, &recorder{id: "b"}
	h.Subscribe("r1", a)
	h.Subscribe("r1", b)

	h.Publish(domain.PresenceJoined{IdentityID: "u-b", RoomID: "r1"}, Room("r1").Except(b))

	require.Len(t, a.got(), 1)
	require.Empty(t, b.got())
}

func TestHub_AllScopeReachesUnsubscribed(t *testing.T) {
	h := NewHub()
	a, b := &recorder{id: "a"}, &recorder{id: "b"}
	h.Register(a)
	h.Register(b)

	h.Publish(domain.RoomCreated{Room: domain.Room{ID: "r9"}}, All())

	require.Len(t, a.got(), 1)
	require.Len(t, b.got(), 1)
}

func TestHub_FailingSubscriberDoesNotBlockOthers(t *testing.T) {
	h := NewHub()
	bad, good := &recorder{id: "bad", fail: true}, &recorder{id: "good"}
	h.Subscribe("r1", bad)
	h.Subscribe("r1", good)

	h.Publish(domain.MessageCreated{}, Room("r1"))

	require.Len(t, good.got(), 1)
}

func TestHub_UnregisterDropsAllGroups(t *testing.T) {
	h := NewHub()
	a := &recorder{id: "a"}
	h.Register(a)
	h.Subscribe("r1", a)
	h.Subscribe("r2", a)
	require.Equal(t, 1, h.Subscribers("r1"))

	h.Unregister(a)

	require.Zero(t, h.Subscribers("r1"))
	require.Zero(t, h.Subscribers("r2"))
	h.Publish(domain.RoomCreated{}, All())
	require.Empty(t, a.got())
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	a := &recorder{id: "a"}
	h.Subscribe("r1", a)
	h.Unsubscribe("r1", a)
	h.Publish(domain.MessageCreated{}, Room("r1"))
	require.Empty(t, a.got())
}

type panicking struct{ id string }

func (p panicking) ID() string { return p.id }

func (panicking) Deliver(domain.Event) error { panic("closed channel") }

func TestHub_PanickingSubscriberDoesNotStopPublish(t *testing.T) {
	h := NewHub()
	good := &recorder{id: "good"}
	h.Subscribe("r1", panicking{id: "bad"})
	h.Subscribe("r1", good)

	require.NotPanics(t, func() { h.Publish(domain.MessageCreated{}, Room("r1")) })
	require.Len(t, good.got(), 1)
}
