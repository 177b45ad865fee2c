package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/fanout"
	"github.com/cwrk-planet/roomcast/internal/service"
)

type Coordinator interface {
	Connect(sub fanout.Subscriber)
	Disconnect(sub fanout.Subscriber)
	ListRooms(ctx context.Context, req service.ListRoomsRequest) ([]domain.RoomSummary, error)
	CreateUser(ctx context.Context, req service.CreateUserRequest) (service.CreateUserResponse, error)
	CreateRoom(ctx context.Context, req service.CreateRoomRequest) (service.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, req service.JoinRoomRequest, sub fanout.Subscriber) (service.JoinRoomResponse, error)
	SendMessage(ctx context.Context, req service.SendMessageRequest) (service.SendMessageResponse, error)
}

type Options struct {
	AllowedOrigins []string
	PingEvery      time.Duration
	SendBuffer     int
}

type Server struct {
	upgrader websocket.Upgrader
	coord    Coordinator

	pingEvery  time.Duration
	sendBuffer int
}

func NewServer(coord Coordinator, opts Options) *Server {
	if opts.PingEvery <= 0 {
		opts.PingEvery = 15 * time.Second
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	return &Server{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		},
		pingEvery:  opts.PingEvery,
		sendBuffer: opts.SendBuffer,
	}
}

// checkOrigin accepts requests without Origin (non-browser clients) and
// browser requests from one of the allowed origins. An empty list allows all.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		return lo.ContainsBy(allowed, func(a string) bool {
			return a == "*" || strings.EqualFold(a, origin)
		})
	}
}

// HandleWS serves GET /ws. Each request frame gets exactly one ack; events
// for the rooms the channel joined are pushed in between.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the error response
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString(), s.sendBuffer)
	s.coord.Connect(c)
	slog.Debug("ws connected", "conn", c.id, "remote", r.RemoteAddr)

	go c.writeLoop(s.pingEvery)
	s.readLoop(r.Context(), c)

	s.coord.Disconnect(c)
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.id, "err", err)
	}
	slog.Debug("ws disconnected", "conn", c.id)
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws read failed", "conn", c.id, "err", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			if c.enqueue(errAck("", domain.BadRequest("malformed frame"))) != nil {
				return
			}
			continue
		}

		if err := c.enqueue(s.handle(ctx, c, req)); err != nil {
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, c *wsConn, req Request) (ack Ack) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ws handler panic",
				"conn", c.id,
				"type", req.Type,
				"panic", r,
				"stack", string(debug.Stack()))
			ack = errAck(req.ID, domain.NewError(domain.CodeInternal, fmt.Sprint(r)))
		}
	}()

	data, err := s.dispatch(ctx, c, req)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeInternal {
			slog.Error("ws request failed", "conn", c.id, "type", req.Type, "err", err)
		}
		return errAck(req.ID, err)
	}
	return okAck(req.ID, data)
}

func (s *Server) dispatch(ctx context.Context, c *wsConn, req Request) (any, error) {
	switch req.Type {
	case TypeListRooms:
		var p service.ListRoomsRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.coord.ListRooms(ctx, p)

	case TypeCreateUser:
		var p service.CreateUserRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.coord.CreateUser(ctx, p)

	case TypeCreateRoom:
		var p service.CreateRoomRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.coord.CreateRoom(ctx, p)

	case TypeJoinRoom:
		var p service.JoinRoomRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.coord.JoinRoom(ctx, p, c)

	case TypeSendMessage:
		var p service.SendMessageRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.coord.SendMessage(ctx, p)

	default:
		return nil, domain.BadRequest(fmt.Sprintf("unknown request type %q", req.Type))
	}
}

func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.BadRequest("malformed payload")
	}
	return nil
}
