package domain

import "time"

const (
	MinRoomMembers     = 2
	MaxRoomMembers     = 10
	DefaultRoomMembers = 2

	// RecentMessagesLimit is how much history a joining member receives.
	RecentMessagesLimit = 50
)

type Room struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"startDate"`
	MaxMembers int       `json:"maxUsers"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatorID  string    `json:"creatorId,omitempty"`
}

// NewRoom holds already validated room fields.
type NewRoom struct {
	Name       string
	StartDate  time.Time
	MaxMembers int
}

// RoomSummary is the list projection of a room.
type RoomSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	MaxMembers  int       `json:"maxUsers"`
	MemberCount int       `json:"members"`
}

type JoinResult struct {
	Room           Room      `json:"room"`
	RecentMessages []Message `json:"recentMessages"`
}
