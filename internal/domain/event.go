package domain

// EventType names an event pushed to channels.
type EventType string

const (
	EventRoomCreated    EventType = "roomCreated"
	EventPresenceJoined EventType = "presenceJoined"
	EventMessageCreated EventType = "messageCreated"
)

type Event interface {
	Type() EventType
}

type RoomCreated struct {
	Room Room `json:"room"`
}

func (RoomCreated) Type() EventType { return EventRoomCreated }

type PresenceJoined struct {
	IdentityID  string `json:"userId"`
	DisplayName string `json:"userName"`
	RoomID      string `json:"roomId"`
}

func (PresenceJoined) Type() EventType { return EventPresenceJoined }

type MessageCreated struct {
	Message Message `json:"message"`
}

func (MessageCreated) Type() EventType { return EventMessageCreated }
