// Package movement steps units toward their orders on the x/z plane.
package movement

import (
	"math"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Arbiter owns no state of its own; it walks the arena every tick.
type Arbiter struct {
	world *model.World
}

func NewArbiter(world *model.World) *Arbiter {
	return &Arbiter{world: world}
}

// Update moves every mobile unit with an order and gives idle AI units
// something to chase.
func (a *Arbiter) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for e := range a.world.All() {
		if !e.Alive() || e.Speed <= 0 {
			continue
		}
		if e.Order == nil && e.Faction == model.AI {
			a.acquire(e)
		}
		if e.Order != nil {
			step(e, dt)
		}
	}
}

// step advances e by at most speed*dt toward its order. Altitude never
// changes. The order is dropped once the weapon can reach the target point.
func step(e *model.Entity, dt float64) {
	target := e.Order.Target
	dx, dz := target.X-e.Position.X, target.Z-e.Position.Z
	dist := math.Hypot(dx, dz)
	reach := e.Reach(target)
	if dist <= reach {
		e.Order = nil
		return
	}

	move := math.Min(e.Speed*dt, dist)
	if move == dist {
		e.Position.X, e.Position.Z = target.X, target.Z
	} else {
		e.Position.X += dx / dist * move
		e.Position.Z += dz / dist * move
	}
	e.Heading = math.Atan2(dx, dz)

	if dist-move <= reach {
		e.Order = nil
	}
}

// acquire orders an idle AI unit toward the nearest living enemy that is not
// a production building. With nothing to chase the unit stays idle.
func (a *Arbiter) acquire(e *model.Entity) {
	var best *model.Entity
	bestDist := math.Inf(1)
	for o := range a.world.All() {
		if !o.Alive() || !e.Hostile(o) || o.Kind.IsProduction() {
			continue
		}
		if d := e.Position.PlanarDistance(o.Position); d < bestDist {
			best, bestDist = o, d
		}
	}
	if best == nil {
		return
	}
	e.Order = &model.Order{Target: best.Position}
}
