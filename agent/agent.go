package agent

//go:generate go tool mockgen -destination=mocks/publisher_mock.go -package=mocks . Publisher

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/nstehr/vimy/vimy-sim/ipc"
	"github.com/nstehr/vimy/vimy-sim/model"
	"github.com/nstehr/vimy/vimy-sim/sim"
)

// Publisher fans outbound messages out to every subscribed client.
type Publisher interface {
	Subscribe(c *ipc.Connection)
	Unsubscribe(c *ipc.Connection)
	Publish(msgType string, data any)
}

// ErrObserver rejects intents from read-only sessions.
var ErrObserver = errors.New("observers cannot issue intents")

// ErrStopped is returned for intents submitted after the host loop exited.
var ErrStopped = errors.New("host stopped")

// intentTimeout bounds how long a connection waits for the tick goroutine.
const intentTimeout = 5 * time.Second

// intent is a game mutation queued by a connection goroutine and applied by
// the tick goroutine between steps.
type intent struct {
	name  string
	apply func(g *sim.Game) error
	reply chan error
}

// Agent hosts one game. The game is only touched from the goroutine that
// calls Tick; connection goroutines talk to it through the intent queue.
type Agent struct {
	game          *sim.Game
	pub           Publisher
	snapshotEvery int

	intents chan intent
	done    chan struct{}
	paused  atomic.Bool

	ticks  uint64
	alerts *alertTracker
}

func New(game *sim.Game, pub Publisher, snapshotEvery int) *Agent {
	if snapshotEvery < 1 {
		snapshotEvery = 1
	}
	return &Agent{
		game:          game,
		pub:           pub,
		snapshotEvery: snapshotEvery,
		intents:       make(chan intent, 64),
		done:          make(chan struct{}),
		alerts:        newAlertTracker(),
	}
}

func (a *Agent) Paused() bool { return a.paused.Load() }

// submit queues fn and waits for the tick goroutine to apply it.
func (a *Agent) submit(name string, fn func(g *sim.Game) error) error {
	in := intent{name: name, apply: fn, reply: make(chan error, 1)}
	timer := time.NewTimer(intentTimeout)
	defer timer.Stop()

	select {
	case a.intents <- in:
	case <-a.done:
		return ErrStopped
	case <-timer.C:
		return fmt.Errorf("%s: intent queue full", name)
	}
	select {
	case err := <-in.reply:
		return err
	case <-a.done:
		return ErrStopped
	case <-timer.C:
		return fmt.Errorf("%s: timed out waiting for tick", name)
	}
}

// session is the per-connection state behind the handlers.
type session struct {
	agent    *Agent
	conn     *ipc.Connection
	observer bool
	greeted  bool
}

// Serve runs one client connection until it closes. Clients must say hello
// before anything else; after that they receive every broadcast.
func (a *Agent) Serve(conn net.Conn) {
	c := ipc.NewConnection(conn, nil)
	s := &session{agent: a, conn: c}

	c.RegisterHandler(ipc.TypeHello, s.handleHello)
	c.RegisterHandler(ipc.TypePurchase, s.gated(ipc.TypePurchase, s.handlePurchase))
	c.RegisterHandler(ipc.TypePlace, s.gated(ipc.TypePlace, s.handlePlace))
	c.RegisterHandler(ipc.TypeCancel, s.gated(ipc.TypeCancel, s.handleCancel))
	c.RegisterHandler(ipc.TypeMove, s.gated(ipc.TypeMove, s.handleMove))
	c.RegisterHandler(ipc.TypeAttack, s.gated(ipc.TypeAttack, s.handleAttack))
	c.RegisterHandler(ipc.TypeActivate, s.gated(ipc.TypeActivate, s.handleActivate))
	c.RegisterHandler(ipc.TypeAddTime, s.gated(ipc.TypeAddTime, s.handleAddTime))
	c.RegisterHandler(ipc.TypeNewGame, s.gated(ipc.TypeNewGame, s.handleNewGame))
	c.RegisterHandler(ipc.TypePause, s.gated(ipc.TypePause, s.handlePause))
	c.RegisterHandler(ipc.TypeResume, s.gated(ipc.TypeResume, s.handleResume))

	c.ReadLoop()
	a.pub.Unsubscribe(c)
	slog.Info("client disconnected", "client", c.Client)
}

// gated wraps an intent handler with the hello and observer checks.
func (s *session) gated(name string, h ipc.Handler) ipc.Handler {
	return func(env ipc.Envelope) (*ipc.Envelope, error) {
		if !s.greeted {
			return nil, fmt.Errorf("%s before hello", name)
		}
		if s.observer {
			return nil, ErrObserver
		}
		return h(env)
	}
}

// handleHello completes the handshake so the client knows the host is ready.
func (s *session) handleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}
	s.conn.Client = hello.Client
	s.observer = hello.Observer
	s.greeted = true
	slog.Info("client identified", "client", hello.Client, "observer", hello.Observer)

	var matchID string
	if err := s.agent.submit(ipc.TypeHello, func(g *sim.Game) error {
		matchID = g.MatchID().String()
		return nil
	}); err != nil {
		return nil, err
	}
	s.agent.pub.Subscribe(s.conn)
	return s.ack(matchID)
}

func (s *session) ack(matchID string) (*ipc.Envelope, error) {
	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", MatchID: matchID, Paused: s.agent.Paused()})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *session) handlePurchase(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.PurchaseCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	k, err := model.ParseKind(cmd.Item)
	if err != nil {
		return nil, err
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error { return g.RequestPurchase(k) })
}

func (s *session) handlePlace(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.PlaceCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	k, err := model.ParseKind(cmd.Item)
	if err != nil {
		return nil, err
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		_, err := g.RequestPlacement(k, model.Vec3{X: cmd.X, Z: cmd.Z})
		return err
	})
}

func (s *session) handleCancel(env ipc.Envelope) (*ipc.Envelope, error) {
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		g.CancelPurchase()
		return nil
	})
}

func (s *session) handleMove(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.MoveCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		return g.RequestMove(model.EntityID(cmd.ActorID), model.Vec3{X: cmd.X, Z: cmd.Z})
	})
}

func (s *session) handleAttack(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.AttackCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		return g.RequestAttack(model.EntityID(cmd.ActorID), model.EntityID(cmd.TargetID))
	})
}

func (s *session) handleActivate(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.ActivateCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		return g.RequestActivate(model.EntityID(cmd.ActorID))
	})
}

func (s *session) handleAddTime(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.AddTimeCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	if cmd.Seconds <= 0 {
		return nil, fmt.Errorf("add_time: seconds must be positive, got %v", cmd.Seconds)
	}
	return nil, s.agent.submit(env.Type, func(g *sim.Game) error {
		g.AddTime(cmd.Seconds)
		return nil
	})
}

func (s *session) handleNewGame(env ipc.Envelope) (*ipc.Envelope, error) {
	var matchID string
	if err := s.agent.submit(env.Type, func(g *sim.Game) error {
		s.agent.reset(g)
		matchID = g.MatchID().String()
		return nil
	}); err != nil {
		return nil, err
	}
	return s.ack(matchID)
}

func (s *session) handlePause(env ipc.Envelope) (*ipc.Envelope, error) {
	s.agent.paused.Store(true)
	slog.Info("game paused", "client", s.conn.Client)
	return s.ack("")
}

func (s *session) handleResume(env ipc.Envelope) (*ipc.Envelope, error) {
	s.agent.paused.Store(false)
	slog.Info("game resumed", "client", s.conn.Client)
	return s.ack("")
}
