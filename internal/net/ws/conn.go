// Package ws is the websocket transport behind the game session. The core
// consumes it only through the session's Socket interface; everything
// gorilla-specific stays here.
package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Callbacks are the notifications a connection delivers. OnMessage and
// OnClose run on the connection's read goroutine; the receiver is expected
// to do its own locking. A successful Dial is the open signal.
type Callbacks struct {
	OnMessage func(data []byte)
	OnClose   func(err error)
}

// Conn wraps a gorilla websocket connection with a serialized writer and a
// readiness query.
type Conn struct {
	log *zap.SugaredLogger
	cb  Callbacks

	mu       sync.Mutex
	conn     *websocket.Conn
	open     bool
	notified bool
}

// Dial connects to the server and starts the read pump. Closing the
// returned connection at any time is safe and is the sole teardown signal.
func Dial(ctx context.Context, url string, cb Callbacks, log *zap.SugaredLogger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Conn{log: log, cb: cb, conn: conn, open: true}
	go c.readPump()
	return c, nil
}

func (c *Conn) readPump() {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.notifyClose(err)
			return
		}
		if c.cb.OnMessage != nil {
			c.cb.OnMessage(payload)
		}
	}
}

// Send writes one text frame. Writes after close fail with an error rather
// than blocking.
func (c *Conn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return fmt.Errorf("send: connection closed")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.open = false
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Ready reports whether the socket is open for application traffic.
func (c *Conn) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Close tears the connection down. Idempotent; the disconnected callback
// fires exactly once whichever side closed first.
func (c *Conn) Close() error {
	err := c.conn.Close()
	c.notifyClose(nil)
	return err
}

// notifyClose marks the connection closed and delivers OnClose at most once.
func (c *Conn) notifyClose(cause error) {
	c.mu.Lock()
	c.open = false
	fire := !c.notified
	c.notified = true
	c.mu.Unlock()
	if fire && c.cb.OnClose != nil {
		c.cb.OnClose(cause)
	}
}
