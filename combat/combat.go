// Package combat resolves weapon fire and deaths.
package combat

import (
	"log/slog"
	"math"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Resolver fires every ready weapon once per tick. It runs for both sides
// on every turn.
type Resolver struct {
	world *model.World

	// OnDestroyed is called after a killed entity has been removed.
	OnDestroyed func(victim *model.Entity, killer model.EntityID)
}

func NewResolver(world *model.World) *Resolver {
	return &Resolver{world: world}
}

// Update resolves one tick at simulation time now. Shooters act in ascending
// id order; a victim killed earlier in the tick is already gone for later
// shooters.
func (r *Resolver) Update(now float64) {
	for e := range r.world.All() {
		if !e.Alive() || e.Weapon == nil || !e.Weapon.Ready(now) {
			continue
		}
		target := r.pickTarget(e)
		if target == nil {
			continue
		}
		r.fire(e, target, now)
	}
}

// pickTarget prefers the ordered attack target while it is alive, hostile
// and in range; otherwise it takes the nearest hostile in range, lower id
// first on ties.
func (r *Resolver) pickTarget(e *model.Entity) *model.Entity {
	if e.AttackTarget != 0 {
		t, ok := r.world.Get(e.AttackTarget)
		switch {
		case !ok || !t.Alive():
			e.AttackTarget = 0
		case e.Hostile(t) && inRange(e, t):
			return t
		}
	}
	return r.nearestHostileInRange(e)
}

func (r *Resolver) nearestHostileInRange(e *model.Entity) *model.Entity {
	var best *model.Entity
	bestDist := math.Inf(1)
	for o := range r.world.All() {
		if !o.Alive() || !e.Hostile(o) {
			continue
		}
		d := e.Position.Distance(o.Position)
		if d > e.Weapon.Range {
			continue
		}
		// Strict comparison keeps the lower id on ties.
		if d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

func inRange(e, t *model.Entity) bool {
	return e.Position.Distance(t.Position) <= e.Weapon.Range
}

func (r *Resolver) fire(e, target *model.Entity, now float64) {
	e.Weapon.LastShot = now
	e.Weapon.Fired = true
	target.Health -= e.Weapon.Damage
	slog.Debug("weapon fired", "shooter", e.ID, "target", target.ID, "damage", e.Weapon.Damage, "health", target.Health)

	if target.Alive() {
		return
	}
	r.world.Remove(target.ID)
	slog.Info("entity destroyed", "id", target.ID, "kind", target.Kind, "faction", target.Faction, "killer", e.ID)
	if r.OnDestroyed != nil {
		r.OnDestroyed(target, e.ID)
	}
}
