package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/nstehr/vimy/vimy-sim/ipc"
	"github.com/nstehr/vimy/vimy-sim/sim"
)

// Run drives the game at tickRate steps per second until ctx is done.
// Steps use the measured wall-clock delta; the game clamps long stalls.
func (a *Agent) Run(ctx context.Context, tickRate float64) error {
	if tickRate <= 0 {
		tickRate = 1
	}
	defer close(a.done)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()

	slog.Info("host loop started", "tickRate", tickRate, "match", a.game.MatchID())
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("host loop stopped", "ticks", a.ticks)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.Tick(dt)
		}
	}
}

// Tick applies queued intents then advances the game by dt. It is the only
// place the game is mutated.
func (a *Agent) Tick(dt float64) {
	a.applyIntents()

	if a.paused.Load() {
		return
	}

	events := a.game.Step(dt)
	a.ticks++

	ended := false
	for _, ev := range events {
		a.pub.Publish(ipc.TypeEvent, ev)
		if ev.Kind == sim.EventReturnToMenu {
			ended = true
		}
	}

	snap := a.game.Snapshot()
	for _, al := range a.alerts.observe(snap) {
		slog.Info("alert", "kind", al.Kind, "tick", al.Tick, "detail", al.Detail)
		a.pub.Publish(ipc.TypeAlert, al)
	}

	if ended {
		a.reset(a.game)
		return
	}
	if a.ticks%uint64(a.snapshotEvery) == 0 {
		a.pub.Publish(ipc.TypeSnapshot, snap)
	}
}

func (a *Agent) applyIntents() {
	for {
		select {
		case in := <-a.intents:
			err := in.apply(a.game)
			if err != nil {
				slog.Debug("intent rejected", "intent", in.name, "error", err)
			}
			in.reply <- err
		default:
			return
		}
	}
}

// reset starts a fresh match and tells every client about it right away.
func (a *Agent) reset(g *sim.Game) {
	g.Reset()
	a.alerts.reset()
	slog.Info("new match", "match", g.MatchID())
	a.pub.Publish(ipc.TypeSnapshot, g.Snapshot())
}
