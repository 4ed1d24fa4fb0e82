package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/junsooki/RegionWatch/internal/log"
)

// Relay mirrors notifications as JSON events over a WebSocket connection.
// The connection is dialed on first use and redialed on the next
// notification after it drops.
type Relay struct {
	url    string
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewRelay creates a relay for a ws:// or wss:// URL.
func NewRelay(url string) *Relay {
	return &Relay{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Notify writes one change event. A failed write drops the connection.
func (r *Relay) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("relay closed")
	}

	if r.conn == nil {
		conn, _, err := r.dialer.DialContext(ctx, r.url, nil)
		if err != nil {
			return fmt.Errorf("relay dial: %w", err)
		}
		r.conn = conn
		go r.readLoop(conn)
		log.Debug("Relay connected", "url", r.url)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetWriteDeadline(deadline)
	} else {
		_ = r.conn.SetWriteDeadline(time.Time{})
	}
	if err := r.conn.WriteJSON(eventFor(n)); err != nil {
		r.conn.Close()
		r.conn = nil
		return fmt.Errorf("relay write: %w", err)
	}
	return nil
}

// Close shuts down the connection.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.conn == nil {
		return nil
	}
	_ = r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := r.conn.Close()
	r.conn = nil
	return err
}

// readLoop discards inbound messages so control frames are handled, and
// forgets the connection once the peer goes away.
func (r *Relay) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			r.drop(conn, err)
			return
		}
	}
}

func (r *Relay) drop(conn *websocket.Conn, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != conn {
		return
	}
	log.Warn("Relay disconnected", "error", err)
	r.conn.Close()
	r.conn = nil
}
