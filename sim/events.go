package sim

import (
	"github.com/nstehr/vimy/vimy-sim/model"
	"github.com/nstehr/vimy/vimy-sim/turn"
)

// EventKind names something observers care about.
type EventKind string

const (
	EventTurnChanged  EventKind = "turn_changed"
	EventSpawned      EventKind = "spawned"
	EventDestroyed    EventKind = "destroyed"
	EventPurchased    EventKind = "purchased"
	EventVictory      EventKind = "victory"
	EventDefeat       EventKind = "defeat"
	EventReturnToMenu EventKind = "return_to_menu"
)

// Event is one notable change. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Tick    uint64           `json:"tick"`
	Time    float64          `json:"time"`
	Faction *model.Faction   `json:"faction,omitempty"`
	Item    model.Kind       `json:"item,omitempty"`
	Entity  *EntityView      `json:"entity,omitempty"`
	Killer  model.EntityID   `json:"killer,omitempty"`
	Turn    *turn.State      `json:"turn,omitempty"`
	Cost    *model.Resources `json:"cost,omitempty"`
}

func (g *Game) emit(ev Event) {
	ev.Tick = g.tick
	ev.Time = g.now
	g.events = append(g.events, ev)
}

func (g *Game) emitSpawned(e *model.Entity) {
	v := viewOf(e)
	g.emit(Event{Kind: EventSpawned, Faction: &v.Faction, Item: e.Kind, Entity: &v})
}

func (g *Game) emitPurchased(e *model.Entity, cost model.Resources) {
	v := viewOf(e)
	g.emit(Event{Kind: EventPurchased, Faction: &v.Faction, Item: e.Kind, Entity: &v, Cost: &cost})
}

func (g *Game) emitDestroyed(e *model.Entity, killer model.EntityID) {
	v := viewOf(e)
	g.emit(Event{Kind: EventDestroyed, Faction: &v.Faction, Item: e.Kind, Entity: &v, Killer: killer})
}

// drain hands the buffered events to the caller.
func (g *Game) drain() []Event {
	out := g.events
	g.events = nil
	return out
}
