//go:generate go run go.uber.org/mock/mockgen -source=fanout.go -destination=mocks/mock_fanout.go -package=mocks
package service

import (
	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/fanout"
)

// Fanout is what the coordinator needs from the broadcaster.
type Fanout interface {
	Register(sub fanout.Subscriber)
	Unregister(sub fanout.Subscriber)
	Subscribe(roomID string, sub fanout.Subscriber)
	Publish(evt domain.Event, scope fanout.Scope)
}
