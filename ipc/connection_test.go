package ipc

import (
	"errors"
	"net"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func startLoop(t *testing.T, server net.Conn, handlers map[string]Handler) {
	t.Helper()
	conn := NewConnection(server, handlers)
	done := make(chan struct{})
	go func() {
		conn.ReadLoop()
		close(done)
	}()
	t.Cleanup(func() {
		conn.Close()
		<-done
	})
}

func send(t *testing.T, c net.Conn, msgType string, data any) Envelope {
	t.Helper()
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		t.Fatal(err)
	}
	c.SetDeadline(time.Now().Add(5 * time.Second))
	if err := WriteEnvelope(c, env); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := ReadEnvelope(c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func handlers() map[string]Handler {
	return map[string]Handler{
		TypeHello: func(env Envelope) (*Envelope, error) {
			var hello HelloMessage
			if err := env.Decode(&hello); err != nil {
				return nil, err
			}
			ack, err := NewEnvelope(TypeAck, AckMessage{Status: "ok", MatchID: hello.Client})
			return &ack, err
		},
		TypePurchase: func(env Envelope) (*Envelope, error) {
			return nil, errors.New("insufficient resources")
		},
	}
}

func TestConnectionHandlers(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	startLoop(t, server, handlers())

	resp := send(t, client, TypeHello, HelloMessage{Client: "ui-1"})
	var ack AckMessage
	if resp.Type != TypeAck || resp.Decode(&ack) != nil || ack.MatchID != "ui-1" {
		t.Errorf("hello reply = %s %s", resp.Type, resp.Data)
	}

	resp = send(t, client, TypePurchase, PurchaseCommand{Item: "tank"})
	var rej RejectedMessage
	if resp.Type != TypeRejected || resp.Decode(&rej) != nil {
		t.Fatalf("purchase reply = %s %s", resp.Type, resp.Data)
	}
	if rej.Type != TypePurchase || !strings.Contains(rej.Reason, "insufficient") {
		t.Errorf("rejection = %+v", rej)
	}

	resp = send(t, client, "teleport", struct{}{})
	if resp.Type != TypeRejected {
		t.Errorf("unknown type reply = %s", resp.Type)
	}
}

func TestWebSocketTransport(t *testing.T) {
	srv := httptest.NewServer(WebSocketHandler(func(conn net.Conn) {
		NewConnection(conn, handlers()).ReadLoop()
	}))
	defer srv.Close()

	ctx := t.Context()
	conn, err := DialWebSocket(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("DialWebSocket: %v", err)
	}
	defer conn.Close()

	resp := send(t, conn, TypeHello, HelloMessage{Client: "browser"})
	var ack AckMessage
	if resp.Type != TypeAck || resp.Decode(&ack) != nil || ack.MatchID != "browser" {
		t.Errorf("hello reply = %s %s", resp.Type, resp.Data)
	}
}

func TestSendRespectsWriteTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := NewConnection(server, nil)
	defer conn.Close()
	conn.WriteTimeout = 50 * time.Millisecond

	start := time.Now()
	err := conn.Send(TypeSnapshot, map[string]int{"tick": 1})
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Send took %v", elapsed)
	}
}
