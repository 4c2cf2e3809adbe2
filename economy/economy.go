// Package economy turns elapsed time into income for both ledgers.
//
// The human ledger is fed by two independent paths: a batch timer that
// credits every active building's rate once per interval, and a per-tick
// accrual of wood (forest farms) and iron (mines). Mine iron flows through
// both. The AI ledger has its own continuous accrual with balance
// multipliers.
package economy

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-sim/config"
	"github.com/nstehr/vimy/vimy-sim/model"
)

// Simulation owns no state beyond its timers; ledgers and the arena are
// injected so tests can build isolated worlds.
type Simulation struct {
	cfg         config.EconomyConfig
	incomeScale float64 // difficulty scaling on AI income

	world   *model.World
	human   *model.Ledger
	ai      *model.Ledger
	catalog model.Catalog
	field   model.Field

	batchElapsed float64
	aiSeeded     bool

	// OnSpawn is told about entities the economy creates (the AI's
	// bootstrap farm).
	OnSpawn func(e *model.Entity)
}

func New(cfg config.EconomyConfig, incomeScale float64, world *model.World, human, ai *model.Ledger, catalog model.Catalog, field model.Field) *Simulation {
	if incomeScale <= 0 {
		incomeScale = 1
	}
	return &Simulation{
		cfg:         cfg,
		incomeScale: incomeScale,
		world:       world,
		human:       human,
		ai:          ai,
		catalog:     catalog,
		field:       field,
	}
}

// Reset rewinds the batch timer and forgets the AI seed.
func (s *Simulation) Reset() {
	s.batchElapsed = 0
	s.aiSeeded = false
}

// MarkSeeded records that the AI ledger was seeded by a new-game reset, so
// the empty-ledger bootstrap never fires.
func (s *Simulation) MarkSeeded() { s.aiSeeded = true }

func (s *Simulation) Seeded() bool { return s.aiSeeded }

// Update runs one tick. It runs regardless of whose turn it is.
func (s *Simulation) Update(dt float64) {
	if dt <= 0 {
		return
	}
	s.bootstrapAI()

	if s.cfg.Cadence != config.CadenceBatched {
		s.accrueContinuous(dt)
	}

	s.batchElapsed += dt
	for s.batchElapsed >= s.cfg.BatchInterval {
		s.batchElapsed -= s.cfg.BatchInterval
		s.applyBatch(s.cfg.BatchInterval)
	}

	s.accrueAI(dt)
}

// active yields the active production buildings of one faction.
func (s *Simulation) active(f model.Faction, fn func(e *model.Entity, p *model.Production)) {
	for e := range s.world.All() {
		if e.Faction != f || e.Production == nil || !e.Production.Active || !e.Alive() {
			continue
		}
		fn(e, e.Production)
	}
}

// accrueContinuous credits rate*dt wood from forest farms and iron from mines.
func (s *Simulation) accrueContinuous(dt float64) {
	var gain model.Resources
	s.active(model.Human, func(e *model.Entity, p *model.Production) {
		switch e.Kind {
		case model.ForestFarm, model.Mine:
			gain = gain.Add(model.Of(p.Secondary, p.SecondaryRate*dt))
		}
	})
	s.human.Credit(gain)
}

// applyBatch sums one interval of production from every active human
// building and credits it once. Steel factories convert iron only when
// enough is on hand; otherwise they yield currency alone for this batch.
func (s *Simulation) applyBatch(interval float64) {
	var gain model.Resources
	var ironUsed float64
	ironOnHand := s.human.Balance().Iron

	s.active(model.Human, func(e *model.Entity, p *model.Production) {
		gain.Currency += p.CurrencyRate * interval
		switch e.Kind {
		case model.ForestFarm:
			// Wood comes from the continuous path unless it is disabled.
			if s.cfg.Cadence == config.CadenceBatched {
				gain = gain.Add(model.Of(p.Secondary, p.SecondaryRate*interval))
			}
		case model.SteelFactory:
			need := p.IronUse * interval
			if ironOnHand+gain.Iron-ironUsed < need {
				slog.Debug("steel factory idle, not enough iron", "id", e.ID, "need", need)
				return
			}
			ironUsed += need
			gain = gain.Add(model.Of(p.Secondary, p.SecondaryRate*interval))
		default:
			gain = gain.Add(model.Of(p.Secondary, p.SecondaryRate*interval))
		}
	})

	s.human.Credit(gain)
	if ironUsed > 0 {
		if err := s.human.Debit(model.Of(model.Iron, ironUsed)); err != nil {
			slog.Warn("steel conversion debit failed", "iron", ironUsed, "error", err)
		}
	}
}

// accrueAI is the AI's separate continuous economy. Income is multiplied by
// the per-resource balance multipliers and the difficulty scale; iron
// consumed by steel conversion is not.
func (s *Simulation) accrueAI(dt float64) {
	var gain model.Resources
	var ironUsed float64
	ironOnHand := s.ai.Balance().Iron

	s.active(model.AI, func(e *model.Entity, p *model.Production) {
		gain.Currency += p.CurrencyRate * dt
		if p.IronUse > 0 {
			need := p.IronUse * dt
			if ironOnHand-ironUsed < need {
				return
			}
			ironUsed += need
		}
		gain = gain.Add(model.Of(p.Secondary, p.SecondaryRate*dt))
	})

	gain = gain.Mul(s.cfg.AIMultipliers).Scale(s.incomeScale)
	if ironUsed > 0 {
		if err := s.ai.Debit(model.Of(model.Iron, ironUsed)); err != nil {
			slog.Warn("ai steel conversion debit failed", "iron", ironUsed, "error", err)
		}
	}
	s.ai.Credit(gain)
}

// bootstrapAI seeds an AI that was never given a starting economy: the
// first time its currency is seen at exactly zero it receives the initial
// grant and a forest farm.
func (s *Simulation) bootstrapAI() {
	if s.aiSeeded || s.ai.Balance().Currency != 0 {
		return
	}
	s.aiSeeded = true
	s.ai.Credit(s.cfg.AIGrant)

	spec, err := s.catalog.Lookup(model.ForestFarm)
	if err != nil {
		slog.Warn("ai bootstrap farm unavailable", "error", err)
		return
	}
	farm := spec.Spawn(model.AI, s.field.PlacementZone(model.AI).Center())
	s.world.Add(farm)
	slog.Info("ai economy bootstrapped", "grant", s.cfg.AIGrant, "farm", farm.ID)
	if s.OnSpawn != nil {
		s.OnSpawn(farm)
	}
}
