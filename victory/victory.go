// Package victory watches tower counts and latches the match outcome.
package victory

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-sim/model"
)

type Outcome uint8

const (
	None Outcome = iota
	Victory
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "none"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Signal is what one Update reports to the pipeline.
type Signal uint8

const (
	NoSignal Signal = iota
	SignalVictory
	SignalDefeat
	SignalReturnToMenu
)

// State is the observable victory state.
type State struct {
	Ended     bool    `json:"ended"`
	Outcome   Outcome `json:"outcome"`
	Remaining float64 `json:"remaining"` // seconds until return to menu
}

// Evaluator counts living towers every tick. Once one side has none the
// outcome latches; the timer starts counting on the following tick and
// returns to the menu exactly once.
type Evaluator struct {
	world        *model.World
	victoryDelay float64
	defeatDelay  float64

	state    State
	notified bool
}

func NewEvaluator(world *model.World, victoryDelay, defeatDelay float64) *Evaluator {
	return &Evaluator{world: world, victoryDelay: victoryDelay, defeatDelay: defeatDelay}
}

func (v *Evaluator) State() State { return v.state }

func (v *Evaluator) Ended() bool { return v.state.Ended }

// Reset clears the latch for a new game.
func (v *Evaluator) Reset() {
	v.state = State{}
	v.notified = false
}

func (v *Evaluator) Update(dt float64) Signal {
	if v.state.Ended {
		return v.countdown(dt)
	}

	human, ai := v.towers()
	// The AI is checked first so that losing the last towers on both sides in
	// the same tick counts as a win.
	switch {
	case ai == 0:
		v.latch(Victory, v.victoryDelay)
		return SignalVictory
	case human == 0:
		v.latch(Defeat, v.defeatDelay)
		return SignalDefeat
	}
	return NoSignal
}

func (v *Evaluator) towers() (human, ai int) {
	for e := range v.world.All() {
		if e.Kind != model.Tower || !e.Alive() {
			continue
		}
		if e.Faction == model.AI {
			ai++
		} else {
			human++
		}
	}
	return human, ai
}

func (v *Evaluator) latch(o Outcome, delay float64) {
	v.state = State{Ended: true, Outcome: o, Remaining: delay}
	slog.Info("match ended", "outcome", o, "returnIn", delay)
}

func (v *Evaluator) countdown(dt float64) Signal {
	if v.notified {
		return NoSignal
	}
	v.state.Remaining -= dt
	if v.state.Remaining > 0 {
		return NoSignal
	}
	v.state.Remaining = 0
	v.notified = true
	slog.Info("returning to menu", "outcome", v.state.Outcome)
	return SignalReturnToMenu
}
