package sim

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Intents never fail the game. Each returns an error saying why it was a
// no-op; callers may ignore it.

// gate is the advisory turn check every human gameplay intent performs.
func (g *Game) gate() error {
	if g.victory.Ended() {
		return model.ErrGameEnded
	}
	if !g.turns.IsTurnOf(model.Human) {
		return fmt.Errorf("%w: %s to move", model.ErrNotYourTurn, g.turns.Current())
	}
	return nil
}

// RequestPurchase arms a purchase of k for placement. Nothing is debited
// until the item is placed.
func (g *Game) RequestPurchase(k model.Kind) error {
	if err := g.gate(); err != nil {
		return err
	}
	spec, err := g.catalog.Purchase(k)
	if err != nil {
		return err
	}
	if short := g.human.Balance().Shortfall(spec.Cost); len(short) > 0 {
		return fmt.Errorf("%w: %s needs more %v", model.ErrInsufficientResources, k, short)
	}
	g.pending = k
	slog.Debug("purchase armed", "item", k)
	return nil
}

// CancelPurchase drops an armed purchase.
func (g *Game) CancelPurchase() { g.pending = model.KindNone }

// RequestPlacement completes the armed purchase of k at pos: the full cost is
// debited and the item spawned, or nothing happens at all.
func (g *Game) RequestPlacement(k model.Kind, pos model.Vec3) (model.EntityID, error) {
	if err := g.gate(); err != nil {
		return 0, err
	}
	if g.pending == model.KindNone || g.pending != k {
		return 0, fmt.Errorf("%w: %s", model.ErrNoPendingPurchase, k)
	}
	if !g.field.PlacementZone(model.Human).Contains(pos) {
		return 0, fmt.Errorf("%w: (%.1f, %.1f)", model.ErrOutOfZone, pos.X, pos.Z)
	}
	spec, err := g.catalog.Purchase(k)
	if err != nil {
		return 0, err
	}
	if err := g.human.Debit(spec.Cost); err != nil {
		return 0, fmt.Errorf("place %s: %w", k, err)
	}
	g.pending = model.KindNone

	e := spec.Spawn(model.Human, pos)
	g.world.Add(e)
	g.emitPurchased(e, spec.Cost)
	g.emitSpawned(e)
	slog.Info("human purchased", "item", k, "id", e.ID)
	return e.ID, nil
}

// ownUnit resolves a human-owned entity.
func (g *Game) ownUnit(id model.EntityID) (*model.Entity, error) {
	e, ok := g.world.Get(id)
	if !ok || !e.Alive() {
		return nil, fmt.Errorf("%w: no entity %d", model.ErrInvalidTarget, id)
	}
	if e.Faction != model.Human {
		return nil, fmt.Errorf("%w: entity %d is not yours", model.ErrInvalidTarget, id)
	}
	return e, nil
}

// RequestMove orders a human unit to a point. Altitude in point is ignored.
func (g *Game) RequestMove(id model.EntityID, point model.Vec3) error {
	if err := g.gate(); err != nil {
		return err
	}
	e, err := g.ownUnit(id)
	if err != nil {
		return err
	}
	if e.Speed <= 0 {
		return fmt.Errorf("%w: %s", model.ErrImmobile, e.Kind)
	}
	if !g.field.Contains(point) {
		return fmt.Errorf("%w: point off the field", model.ErrInvalidTarget)
	}
	e.Order = &model.Order{Target: point}
	e.AttackTarget = 0
	return nil
}

// RequestAttack makes target the unit's preferred victim and, for mobile
// units, moves it into range.
func (g *Game) RequestAttack(id, target model.EntityID) error {
	if err := g.gate(); err != nil {
		return err
	}
	e, err := g.ownUnit(id)
	if err != nil {
		return err
	}
	if e.Weapon == nil {
		return fmt.Errorf("%w: %s has no weapon", model.ErrInvalidTarget, e.Kind)
	}
	t, ok := g.world.Get(target)
	if !ok || !t.Alive() || !e.Hostile(t) {
		return fmt.Errorf("%w: cannot attack %d", model.ErrInvalidTarget, target)
	}
	e.AttackTarget = target
	if e.Speed > 0 {
		e.Order = &model.Order{Target: t.Position}
	}
	return nil
}

// RequestActivate switches on a human production building. Activation is an
// interaction with the building, not a turn action, so it is not gated.
func (g *Game) RequestActivate(id model.EntityID) error {
	if g.victory.Ended() {
		return model.ErrGameEnded
	}
	e, err := g.ownUnit(id)
	if err != nil {
		return err
	}
	if e.Production == nil {
		return fmt.Errorf("%w: %s does not produce", model.ErrInvalidTarget, e.Kind)
	}
	e.Production.Active = true
	slog.Debug("building activated", "id", id, "kind", e.Kind)
	return nil
}

// ApplyDamage is the entry point for damage dealt outside combat resolution.
func (g *Game) ApplyDamage(id model.EntityID, amount float64) error {
	e, ok := g.world.Get(id)
	if !ok {
		return fmt.Errorf("%w: no entity %d", model.ErrInvalidTarget, id)
	}
	if amount <= 0 {
		return nil
	}
	e.Health -= amount
	if !e.Alive() {
		g.world.Remove(id)
		g.emitDestroyed(e, 0)
	}
	return nil
}

// NotifyDestroyed removes an entity that an external collaborator despawned.
func (g *Game) NotifyDestroyed(id model.EntityID) error {
	e, ok := g.world.Get(id)
	if !ok {
		return fmt.Errorf("%w: no entity %d", model.ErrInvalidTarget, id)
	}
	e.Health = 0
	g.world.Remove(id)
	g.emitDestroyed(e, 0)
	return nil
}

// AddTime extends the current turn (debug).
func (g *Game) AddTime(seconds float64) {
	g.turns.AddTime(seconds)
}
