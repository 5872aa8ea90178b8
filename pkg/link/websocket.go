package link

import (
	"net/url"
	"sync"

	"golang.org/x/net/websocket"
)

// WebSocket is a Link over a websocket connection. Each received frame
// may carry several command bytes.
type WebSocket struct {
	conn *websocket.Conn

	pending []byte
	closed  chan struct{}
	once    sync.Once
}

// DialWebSocket connects to a ws:// or wss:// URL.
func DialWebSocket(u *url.URL) (*WebSocket, error) {
	origin := "http://localhost/"
	if u.Scheme == "wss" {
		origin = "https://localhost/"
	}
	conn, err := websocket.Dial(u.String(), "", origin)
	if err != nil {
		return nil, err
	}
	return NewWebSocket(conn), nil
}

// NewWebSocket wraps an established connection.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	return &WebSocket{conn: conn, closed: make(chan struct{})}
}

// ReadByte implements io.ByteReader.
func (w *WebSocket) ReadByte() (byte, error) {
	for len(w.pending) == 0 {
		if err := websocket.Message.Receive(w.conn, &w.pending); err != nil {
			select {
			case <-w.closed:
				return 0, ErrClosed
			default:
				return 0, err
			}
		}
	}
	b := w.pending[0]
	w.pending = w.pending[1:]
	return b, nil
}

// Write implements io.Writer. p is sent as one text frame.
func (w *WebSocket) Write(p []byte) (int, error) {
	if err := websocket.Message.Send(w.conn, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (w *WebSocket) Close() (err error) {
	w.once.Do(func() {
		close(w.closed)
		err = w.conn.Close()
	})
	return
}
