package service

import "github.com/cwrk-planet/roomcast/internal/domain"

// Requests are shared by every transport: the websocket payloads and the
// gRPC messages decode straight into them.

type ListRoomsRequest struct {
	APIKey string `json:"apiKey"`
}

type CreateUserRequest struct {
	APIKey        string  `json:"apiKey"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	DOB           string  `json:"dob"`
	Gender        *string `json:"gender,omitempty"`
	AgreedToTerms bool    `json:"agreedToTerms"`
}

type CreateRoomRequest struct {
	APIKey    string `json:"apiKey"`
	UserID    string `json:"userId" validate:"required"`
	RoomName  string `json:"roomName"`
	StartDate string `json:"startDate,omitempty"`
	MaxUsers  *int   `json:"maxUsers,omitempty"`
}

type JoinRoomRequest struct {
	APIKey string `json:"apiKey"`
	UserID string `json:"userId" validate:"required"`
	RoomID string `json:"roomId" validate:"required"`
}

type SendMessageRequest struct {
	APIKey string `json:"apiKey"`
	UserID string `json:"userId" validate:"required"`
	RoomID string `json:"roomId" validate:"required"`
	Text   string `json:"text"`
}

// RoomMessagesRequest reads a room history. Without After and Limit the
// whole log is returned.
type RoomMessagesRequest struct {
	APIKey string `json:"apiKey"`
	RoomID string `json:"roomId" validate:"required"`
	After  string `json:"after,omitempty"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

type CreateUserResponse struct {
	User domain.Identity `json:"user"`
}

type CreateRoomResponse struct {
	Room domain.Room `json:"room"`
}

type JoinRoomResponse = domain.JoinResult

type SendMessageResponse struct {
	Message domain.Message `json:"message"`
}

type RoomMessagesResponse struct {
	Items      []domain.Message `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
