package memory

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

// Cursor points after the message with the given sequence number.
type Cursor struct {
	Seq int64 `json:"seq"`
}

func EncodeCursor(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCursor returns nil for an empty cursor.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.BadRequest(fmt.Sprintf("invalid cursor: decode base64: %v", err))
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, domain.BadRequest(fmt.Sprintf("invalid cursor: decode json: %v", err))
	}
	if c.Seq < 0 {
		return nil, domain.BadRequest("invalid cursor: negative seq")
	}
	return &c, nil
}
