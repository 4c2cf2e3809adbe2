package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/coder/websocket"
)

// WebSocketHandler upgrades requests and hands serve a byte stream over
// binary messages, so the same length-prefixed framing runs on top. serve
// blocks for the lifetime of the connection.
func WebSocketHandler(serve func(conn net.Conn)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // UI collaborators run on other origins in development
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to accept websocket", "error", err)
			return
		}
		c.SetReadLimit(MaxFrame + 4)
		slog.DebugContext(ctx, "accepted websocket", "remote", r.RemoteAddr)
		serve(websocket.NetConn(ctx, c, websocket.MessageBinary))
	})
}

// DialWebSocket connects to a WebSocketHandler endpoint.
func DialWebSocket(ctx context.Context, url string) (net.Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.SetReadLimit(MaxFrame + 4)
	return websocket.NetConn(ctx, c, websocket.MessageBinary), nil
}
