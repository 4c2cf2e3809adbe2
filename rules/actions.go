package rules

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Board is the slice of game state the engine reads and spends from.
type Board struct {
	World   *model.World
	Ledger  *model.Ledger
	Catalog model.Catalog
	Field   model.Field
}

// buy debits the full cost of k from the AI ledger and spawns it in the AI
// placement zone. Nothing changes if any resource is short.
func buy(b Board, k model.Kind, elapsed float64) (*model.Entity, error) {
	spec, err := b.Catalog.Purchase(k)
	if err != nil {
		return nil, err
	}
	if err := b.Ledger.Debit(spec.Cost); err != nil {
		return nil, fmt.Errorf("buy %s: %w", k, err)
	}
	pos := placement(b.Field, elapsed)
	e := spec.Spawn(model.AI, pos)
	b.World.Add(e)
	slog.Info("ai purchased", "item", k, "id", e.ID, "x", pos.X, "z", pos.Z)
	return e, nil
}

// placement derives a spot in the AI zone from elapsed time. The sequence is
// deterministic so replays with the same tick stream place identically.
func placement(f model.Field, elapsed float64) model.Vec3 {
	u := hash01(elapsed * 12.9898)
	v := hash01(elapsed * 78.233)
	return f.PlacementZone(model.AI).At(u, v)
}

// hash01 maps x to [0, 1) with the usual sin-fract scramble.
func hash01(x float64) float64 {
	s := math.Sin(x) * 43758.5453
	return s - math.Floor(s)
}
