package sim

import (
	"github.com/nstehr/vimy/vimy-sim/model"
	"github.com/nstehr/vimy/vimy-sim/rules"
	"github.com/nstehr/vimy/vimy-sim/turn"
	"github.com/nstehr/vimy/vimy-sim/victory"
)

// EntityView is the read-only projection of an entity that leaves the core.
type EntityView struct {
	ID        model.EntityID `json:"id"`
	Kind      model.Kind     `json:"kind"`
	Faction   model.Faction  `json:"faction"`
	Position  model.Vec3     `json:"position"`
	Heading   float64        `json:"heading"`
	Health    float64        `json:"health"`
	MaxHealth float64        `json:"maxHealth"`
	Active    *bool          `json:"active,omitempty"` // production buildings only
	Moving    bool           `json:"moving,omitempty"`
	Target    model.EntityID `json:"target,omitempty"`
}

func viewOf(e *model.Entity) EntityView {
	v := EntityView{
		ID:        e.ID,
		Kind:      e.Kind,
		Faction:   e.Faction,
		Position:  e.Position,
		Heading:   e.Heading,
		Health:    e.Health,
		MaxHealth: e.MaxHealth,
		Moving:    e.Order != nil,
		Target:    e.AttackTarget,
	}
	if e.Production != nil {
		active := e.Production.Active
		v.Active = &active
	}
	return v
}

// Snapshot is everything the core exposes to renderers and UI.
type Snapshot struct {
	MatchID  string          `json:"matchId"`
	Tick     uint64          `json:"tick"`
	Elapsed  float64         `json:"elapsed"`
	Turn     turn.State      `json:"turn"`
	Human    model.Resources `json:"human"`
	AI       model.Resources `json:"ai"`
	Behavior rules.Behavior  `json:"behavior"`
	Victory  victory.State   `json:"victory"`
	Pending  model.Kind      `json:"pending,omitempty"`
	Entities []EntityView    `json:"entities"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		MatchID:  g.matchID.String(),
		Tick:     g.tick,
		Elapsed:  g.now,
		Turn:     g.turns.State(),
		Human:    g.human.Balance(),
		AI:       g.ai.Balance(),
		Behavior: g.engine.Behavior(),
		Victory:  g.victory.State(),
		Pending:  g.pending,
		Entities: make([]EntityView, 0, g.world.Len()),
	}
	for e := range g.world.All() {
		s.Entities = append(s.Entities, viewOf(e))
	}
	return s
}
