package ws

import (
	"encoding/json"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

// Request types a client may send.
const (
	TypeListRooms   = "listRooms"
	TypeCreateUser  = "createUser"
	TypeCreateRoom  = "createRoom"
	TypeJoinRoom    = "joinRoom"
	TypeSendMessage = "sendMessage"

	// TypeAck is the single reply to a request.
	TypeAck = "ack"
)

// Request is a client frame. ID is echoed back in the ack.
type Request struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Ack struct {
	Type  string     `json:"type"`
	ID    string     `json:"id"`
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
}

// Message is a pushed event: roomCreated, presenceJoined or messageCreated.
type Message struct {
	Type    domain.EventType `json:"type"`
	Payload any              `json:"payload"`
}

func okAck(id string, data any) Ack {
	return Ack{Type: TypeAck, ID: id, OK: true, Data: data}
}

func errAck(id string, err error) Ack {
	return Ack{
		Type:  TypeAck,
		ID:    id,
		Error: &ErrorBody{Code: domain.CodeOf(err), Message: err.Error()},
	}
}
