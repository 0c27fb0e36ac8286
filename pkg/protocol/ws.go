package protocol

import (
	"context"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// WebSocket is one client connection with serialized writes.
type WebSocket struct {
	mu   sync.Mutex
	conn *ws.Conn
	url  string
}

func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	slog.Debug("Dial websocket", "url", url)

	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &WebSocket{conn: conn, url: url}, nil
}

func (web *WebSocket) Write(payload []byte) error {
	web.mu.Lock()
	defer web.mu.Unlock()

	_ = web.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return web.conn.WriteMessage(ws.TextMessage, payload)
}

func (web *WebSocket) Close() error {
	web.mu.Lock()
	defer web.mu.Unlock()

	_ = web.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return web.conn.Close()
}

type incomeKind uint

const (
	connClosed incomeKind = iota
	readFailure
	readOK
)

type income struct {
	kind incomeKind
	msg  []byte
	err  error
}

func (web *WebSocket) read() income {
	_, msg, err := web.conn.ReadMessage()
	if err != nil {
		if isClosed(err) {
			return income{kind: connClosed, err: err}
		}
		return income{kind: readFailure, err: err}
	}
	return income{kind: readOK, msg: msg}
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
