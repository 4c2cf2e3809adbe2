package agent

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-sim/model"
	"github.com/nstehr/vimy/vimy-sim/sim"
)

// AlertKind identifies a situation worth surfacing to the player beyond the
// raw event stream.
type AlertKind string

const (
	AlertTowerLost       AlertKind = "tower_lost"
	AlertArmyDevastated  AlertKind = "army_devastated"
	AlertFirstContact    AlertKind = "first_contact"
	AlertEconomyStalled  AlertKind = "economy_stalled"
	AlertPhaseTransition AlertKind = "phase_transition"
)

// Alert is detected by diffing consecutive snapshots.
type Alert struct {
	Kind   AlertKind `json:"kind"`
	Tick   uint64    `json:"tick"`
	Detail string    `json:"detail"`
}

// armyFloor keeps the first few skirmishes from reading as a collapse.
const armyFloor = 4

// stateSnapshot captures the diffable fields of one tick.
type stateSnapshot struct {
	towers     map[model.EntityID]model.Faction
	army       map[model.Faction]int
	production int // human production buildings
	activeProd int // of which switched on
	phase      string
	damageSeen bool
}

func gamePhase(elapsed float64) string {
	switch {
	case elapsed < 120:
		return "Early Game"
	case elapsed < 300:
		return "Mid Game"
	default:
		return "Late Game"
	}
}

func takeSnapshot(s sim.Snapshot) stateSnapshot {
	snap := stateSnapshot{
		towers: make(map[model.EntityID]model.Faction),
		army:   make(map[model.Faction]int, 2),
		phase:  gamePhase(s.Elapsed),
	}
	for _, e := range s.Entities {
		switch {
		case e.Kind == model.Tower:
			snap.towers[e.ID] = e.Faction
		case e.Kind.IsMobile():
			snap.army[e.Faction]++
		case e.Kind.IsProduction() && e.Faction == model.Human:
			snap.production++
			if e.Active != nil && *e.Active {
				snap.activeProd++
			}
		}
		if e.Health < e.MaxHealth {
			snap.damageSeen = true
		}
	}
	return snap
}

// alertTracker remembers the previous snapshot and the one-shot alerts
// already raised this match.
type alertTracker struct {
	prev      *stateSnapshot
	contacted bool
}

func newAlertTracker() *alertTracker { return &alertTracker{} }

func (t *alertTracker) reset() {
	t.prev = nil
	t.contacted = false
}

// observe diffs s against the previous snapshot. The first call only seeds.
func (t *alertTracker) observe(s sim.Snapshot) []Alert {
	cur := takeSnapshot(s)
	prev := t.prev
	t.prev = &cur
	if prev == nil {
		t.contacted = cur.damageSeen
		return nil
	}

	var alerts []Alert

	for id, f := range prev.towers {
		if _, ok := cur.towers[id]; !ok {
			alerts = append(alerts, Alert{
				Kind:   AlertTowerLost,
				Tick:   s.Tick,
				Detail: fmt.Sprintf("%s lost a tower (id %d)", f, id),
			})
		}
	}

	for _, f := range []model.Faction{model.Human, model.AI} {
		before, after := prev.army[f], cur.army[f]
		if before < armyFloor || after >= before {
			continue
		}
		lost := before - after
		if float64(lost)/float64(before) > 0.5 {
			alerts = append(alerts, Alert{
				Kind:   AlertArmyDevastated,
				Tick:   s.Tick,
				Detail: fmt.Sprintf("%s army devastated: %d→%d units (lost %d%%)", f, before, after, 100*lost/before),
			})
		}
	}

	if !t.contacted && cur.damageSeen {
		t.contacted = true
		alerts = append(alerts, Alert{
			Kind:   AlertFirstContact,
			Tick:   s.Tick,
			Detail: "First shots exchanged",
		})
	}

	if prev.activeProd > 0 && cur.activeProd == 0 && cur.production > 0 {
		alerts = append(alerts, Alert{
			Kind:   AlertEconomyStalled,
			Tick:   s.Tick,
			Detail: fmt.Sprintf("All %d production buildings are switched off", cur.production),
		})
	}

	if prev.phase != cur.phase {
		alerts = append(alerts, Alert{
			Kind:   AlertPhaseTransition,
			Tick:   s.Tick,
			Detail: fmt.Sprintf("Phase changed: %s → %s", prev.phase, cur.phase),
		})
	}

	return alerts
}
