package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/fanout"
	"github.com/cwrk-planet/roomcast/internal/memory"
	"github.com/cwrk-planet/roomcast/internal/service"
)

const apiKey = "demo-key"

type frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
	Payload json.RawMessage `json:"payload"`
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int

	events []frame
}

func newTestServer(t *testing.T, origins ...string) *httptest.Server {
	t.Helper()
	now := func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC) }
	coord := service.NewCoordinator(
		memory.NewIdentityStore(now),
		memory.NewRoomStore(now),
		fanout.NewHub(),
		service.Options{APIKeys: []string{apiKey}, Now: now},
	)
	srv := NewServer(coord, Options{AllowedOrigins: origins, PingEvery: time.Second, SendBuffer: 16})
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &client{t: t, conn: conn}
}

func (c *client) read() frame {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(c.t, c.conn.ReadJSON(&f))
	return f
}

// call sends one request and returns its ack. Events that arrive before the
// ack are kept for nextEvent.
func (c *client) call(typ string, payload any) frame {
	c.t.Helper()
	c.seq++
	id := strconv.Itoa(c.seq)
	raw, err := json.Marshal(payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(Request{ID: id, Type: typ, Payload: raw}))

	for {
		f := c.read()
		if f.Type == TypeAck {
			require.Equal(c.t, id, f.ID)
			return f
		}
		c.events = append(c.events, f)
	}
}

func (c *client) nextEvent() frame {
	c.t.Helper()
	if len(c.events) > 0 {
		f := c.events[0]
		c.events = c.events[1:]
		return f
	}
	f := c.read()
	require.NotEqual(c.t, TypeAck, f.Type)
	return f
}

func decodeInto[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func signUp(c *client, name string) domain.Identity {
	c.t.Helper()
	ack := c.call(TypeCreateUser, map[string]any{
		"apiKey":        apiKey,
		"name":          name,
		"email":         strings.ToLower(name) + "@example.com",
		"dob":           "1990-05-01",
		"agreedToTerms": true,
	})
	require.True(c.t, ack.OK, "%+v", ack.Error)
	return decodeInto[service.CreateUserResponse](c.t, ack.Data).User
}

func TestServer_RoomFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := dial(t, ts)
	bob := dial(t, ts)

	a := signUp(alice, "Alice")
	b := signUp(bob, "Bob")

	ack := alice.call(TypeCreateRoom, map[string]any{
		"apiKey": apiKey, "userId": a.ID, "roomName": "Launch", "maxUsers": 3,
	})
	require.True(t, ack.OK)
	room := decodeInto[service.CreateRoomResponse](t, ack.Data).Room
	assert.Equal(t, 3, room.MaxMembers)

	// every channel hears about the new room, the creator's included
	for _, c := range []*client{alice, bob} {
		created := c.nextEvent()
		assert.Equal(t, string(domain.EventRoomCreated), created.Type)
		assert.Equal(t, room.ID, decodeInto[domain.RoomCreated](t, created.Payload).Room.ID)
	}

	ack = bob.call(TypeJoinRoom, map[string]any{"apiKey": apiKey, "userId": b.ID, "roomId": room.ID})
	require.True(t, ack.OK)
	joined := decodeInto[domain.JoinResult](t, ack.Data)
	assert.Equal(t, room.ID, joined.Room.ID)
	assert.Empty(t, joined.RecentMessages)

	ack = alice.call(TypeJoinRoom, map[string]any{"apiKey": apiKey, "userId": a.ID, "roomId": room.ID})
	require.True(t, ack.OK)

	presence := bob.nextEvent()
	assert.Equal(t, string(domain.EventPresenceJoined), presence.Type)
	p := decodeInto[domain.PresenceJoined](t, presence.Payload)
	assert.Equal(t, a.ID, p.IdentityID)
	assert.Equal(t, "Alice", p.DisplayName)

	ack = alice.call(TypeSendMessage, map[string]any{
		"apiKey": apiKey, "userId": a.ID, "roomId": room.ID, "text": "hello",
	})
	require.True(t, ack.OK)
	sent := decodeInto[service.SendMessageResponse](t, ack.Data).Message
	assert.Equal(t, int64(1), sent.Seq)

	for _, c := range []*client{alice, bob} {
		evt := c.nextEvent()
		assert.Equal(t, string(domain.EventMessageCreated), evt.Type)
		got := decodeInto[domain.MessageCreated](t, evt.Payload).Message
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "hello", got.Text)
	}
}

func TestServer_ListRooms(t *testing.T) {
	ts := newTestServer(t)
	c := dial(t, ts)

	ack := c.call(TypeListRooms, map[string]any{"apiKey": apiKey})
	require.True(t, ack.OK)
	assert.JSONEq(t, `[]`, string(ack.Data))

	ack = c.call(TypeListRooms, map[string]any{"apiKey": "nope"})
	require.False(t, ack.OK)
	assert.Equal(t, domain.CodeUnauthorized, ack.Error.Code)
}

func TestServer_RequestErrors(t *testing.T) {
	ts := newTestServer(t)
	c := dial(t, ts)

	ack := c.call("dance", map[string]any{})
	require.False(t, ack.OK)
	assert.Equal(t, domain.CodeBadRequest, ack.Error.Code)

	ack = c.call(TypeJoinRoom, "not an object")
	require.False(t, ack.OK)
	assert.Equal(t, domain.CodeBadRequest, ack.Error.Code)

	ack = c.call(TypeJoinRoom, map[string]any{"apiKey": apiKey, "userId": "u-1"})
	require.False(t, ack.OK)
	assert.Equal(t, domain.CodeBadRequest, ack.Error.Code)
	assert.Contains(t, ack.Error.Message, "roomId")

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{garbage")))
	f := c.read()
	assert.Equal(t, TypeAck, f.Type)
	assert.False(t, f.OK)
	assert.Equal(t, domain.CodeBadRequest, f.Error.Code)

	// the channel is still usable afterwards
	ack = c.call(TypeListRooms, map[string]any{"apiKey": apiKey})
	assert.True(t, ack.OK)
}

func TestServer_RejectsForeignOrigin(t *testing.T) {
	ts := newTestServer(t, "http://localhost:5173")
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://localhost:5173")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = conn.Close()
}
