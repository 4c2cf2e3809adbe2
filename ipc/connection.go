package ipc

import (
	"log/slog"
	"net"
	"sync"
	"time"
)

// DefaultWriteTimeout bounds a single frame write to a client.
const DefaultWriteTimeout = 2 * time.Second

// Handler processes a received envelope. Return nil to send no reply.
// A returned error is sent back to the client as a rejected message.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one UI collaborator. The hub broadcasts from a writer
// goroutine while ReadLoop replies from its own, so writes are serialized.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Client   string

	// WriteTimeout caps each write; zero disables the deadline.
	WriteTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:         conn,
		handlers:     handlers,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// RegisterHandler must be called before ReadLoop starts.
func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.SendEnvelope(env)
}

// SendEnvelope writes an already encoded envelope, so a broadcast encodes
// once for every client.
func (c *Connection) SendEnvelope(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)); err != nil {
			return err
		}
	}
	return WriteEnvelope(c.conn, env)
}

// Close is safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.Send(TypeRejected, RejectedMessage{Type: env.Type, Reason: "unknown message type"}); err != nil {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Debug("handler rejected", "type", env.Type, "client", c.Client, "error", err)
			if err := c.Send(TypeRejected, RejectedMessage{Type: env.Type, Reason: err.Error()}); err != nil {
				slog.Error("failed to send rejection", "type", env.Type, "error", err)
				return
			}
			continue
		}

		if resp != nil {
			if err := c.SendEnvelope(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "client", c.Client)
		}
	}
}
