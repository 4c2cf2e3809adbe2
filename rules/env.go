package rules

import (
	"github.com/nstehr/vimy/vimy-sim/model"
)

// ScoreEnv is the environment every score expression runs against. Fields
// and methods are callable from expr.
type ScoreEnv struct {
	Aggression float64
	Economy    float64
	Defense    float64

	// UnitRatio is PlayerUnits/AIUnits, or the fallback ratio when the AI
	// has no mobile units.
	UnitRatio   float64
	PlayerUnits int
	AIUnits     int

	Balance model.Resources
	Elapsed float64

	owned map[model.Kind]int
	costs map[model.Kind]model.Resources
}

// Owned counts the AI's living entities of the named kind.
func (e ScoreEnv) Owned(name string) int {
	k, err := model.ParseKind(name)
	if err != nil {
		return 0
	}
	return e.owned[k]
}

// Cash is the AI's currency balance.
func (e ScoreEnv) Cash() float64 { return e.Balance.Currency }

// Affordable reports whether the AI could pay for the named item right now.
// It consults the catalog captured when the env was built.
func (e ScoreEnv) Affordable(name string) bool {
	k, err := model.ParseKind(name)
	if err != nil {
		return false
	}
	cost, ok := e.costs[k]
	return ok && e.Balance.Covers(cost)
}

// newScoreEnv counts mobile units per side and the AI's holdings.
func newScoreEnv(d Doctrine, world *model.World, balance model.Resources, catalog model.Catalog, fallbackRatio, elapsed float64) ScoreEnv {
	env := ScoreEnv{
		Aggression: d.Aggression,
		Economy:    d.Economy,
		Defense:    d.Defense,
		Balance:    balance,
		Elapsed:    elapsed,
		owned:      make(map[model.Kind]int),
		costs:      make(map[model.Kind]model.Resources, len(catalog)),
	}
	for k, s := range catalog {
		env.costs[k] = s.Cost
	}
	for e := range world.All() {
		if !e.Alive() {
			continue
		}
		if e.Faction == model.AI {
			env.owned[e.Kind]++
		}
		if !e.Kind.IsMobile() {
			continue
		}
		if e.Faction == model.AI {
			env.AIUnits++
		} else {
			env.PlayerUnits++
		}
	}
	if env.AIUnits == 0 {
		env.UnitRatio = fallbackRatio
	} else {
		env.UnitRatio = float64(env.PlayerUnits) / float64(env.AIUnits)
	}
	return env
}
