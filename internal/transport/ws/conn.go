package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

var (
	errConnClosed   = errors.New("connection closed")
	errSlowConsumer = errors.New("send buffer full, connection dropped")
)

const writeWait = 5 * time.Second

// wsConn is one client channel. Frames are queued on send and written by
// writeLoop only; a full queue closes the connection instead of blocking
// the publisher.
type wsConn struct {
	id   string
	conn *websocket.Conn

	send   chan any
	closed chan struct{}
	once   sync.Once
}

func newWsConn(conn *websocket.Conn, id string, buffer int) *wsConn {
	return &wsConn{
		id:     id,
		conn:   conn,
		send:   make(chan any, buffer),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Deliver(evt domain.Event) error {
	return c.enqueue(Message{Type: evt.Type(), Payload: evt})
}

func (c *wsConn) enqueue(frame any) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		slog.Warn("ws send buffer full", "conn", c.id)
		_ = c.Close()
		return errSlowConsumer
	}
}

func (c *wsConn) writeLoop(pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				slog.Debug("ws write failed", "conn", c.id, "err", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
