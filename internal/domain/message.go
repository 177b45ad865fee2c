package domain

import "time"

const MaxMessageLength = 2000

// Message is immutable once appended. Seq is its 1-based position in the
// room log and is the ordering authority; CreatedAt is informational.
type Message struct {
	ID                string    `json:"id"`
	RoomID            string    `json:"roomId"`
	Seq               int64     `json:"seq"`
	SenderID          string    `json:"userId"`
	SenderDisplayName string    `json:"userName"`
	Text              string    `json:"text"`
	CreatedAt         time.Time `json:"createdAt"`
}
