package turn

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// DefaultDuration is the length of one side's turn in seconds.
const DefaultDuration = 20.0

// State is the observable turn state. Only the Scheduler mutates it.
type State struct {
	Current  model.Faction `json:"current"`
	TimeLeft float64       `json:"timeLeft"`
	Number   int           `json:"number"`
}

// Scheduler alternates control between the human and the AI on a countdown.
// Gating is advisory: systems that act on one side's turn call IsTurnOf and
// no-op otherwise.
type Scheduler struct {
	state    State
	duration float64
}

func NewScheduler(duration float64) *Scheduler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	s := &Scheduler{duration: duration}
	s.Reset()
	return s
}

// Reset returns to turn 1, human to move, full timer.
func (s *Scheduler) Reset() {
	s.state = State{Current: model.Human, TimeLeft: s.duration, Number: 1}
}

func (s *Scheduler) State() State           { return s.state }
func (s *Scheduler) Duration() float64      { return s.duration }
func (s *Scheduler) Current() model.Faction { return s.state.Current }

func (s *Scheduler) IsTurnOf(f model.Faction) bool { return s.state.Current == f }

// Advance counts the timer down by dt and returns how many times control
// changed hands. Overshoot carries into the next turn, so a dt longer than a
// whole turn still yields one transition per turn duration.
func (s *Scheduler) Advance(dt float64) int {
	if dt <= 0 {
		return 0
	}
	s.state.TimeLeft -= dt
	flips := 0
	for s.state.TimeLeft <= 0 {
		s.flip()
		s.state.TimeLeft += s.duration
		flips++
	}
	return flips
}

func (s *Scheduler) flip() {
	if s.state.Current == model.Human {
		s.state.Current = model.AI
	} else {
		s.state.Current = model.Human
		s.state.Number++
	}
	slog.Debug("turn changed", "current", s.state.Current, "turn", s.state.Number)
}

// AddTime extends the current turn. Debug affordance; non-positive values
// are ignored so the timer never goes negative.
func (s *Scheduler) AddTime(seconds float64) {
	if seconds <= 0 {
		return
	}
	s.state.TimeLeft += seconds
	slog.Info("turn time added", "seconds", seconds, "timeLeft", s.state.TimeLeft)
}
