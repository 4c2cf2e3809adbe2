// Package sim wires the core systems into one tick pipeline and exposes the
// intents, snapshots and events that external collaborators use.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/vimy/vimy-sim/combat"
	"github.com/nstehr/vimy/vimy-sim/config"
	"github.com/nstehr/vimy/vimy-sim/economy"
	"github.com/nstehr/vimy/vimy-sim/model"
	"github.com/nstehr/vimy/vimy-sim/movement"
	"github.com/nstehr/vimy/vimy-sim/rules"
	"github.com/nstehr/vimy/vimy-sim/turn"
	"github.com/nstehr/vimy/vimy-sim/victory"
)

// Game owns one match. It is not safe for concurrent use; the host drives it
// from a single goroutine.
type Game struct {
	cfg     config.Config
	catalog model.Catalog
	field   model.Field

	matchID uuid.UUID
	world   *model.World
	human   *model.Ledger
	ai      *model.Ledger

	turns    *turn.Scheduler
	economy  *economy.Simulation
	engine   *rules.Engine
	movement *movement.Arbiter
	combat   *combat.Resolver
	victory  *victory.Evaluator

	now     float64
	tick    uint64
	pending model.Kind // armed human purchase awaiting placement
	events  []Event
}

// New builds a game from cfg and starts the first match.
func New(cfg config.Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	strategy, err := rules.ParseStrategy(cfg.AI.Strategy)
	if err != nil {
		return nil, err
	}
	difficulty, err := rules.ParseDifficulty(cfg.AI.Difficulty)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		catalog: catalog,
		field:   cfg.Field,
		world:   model.NewWorld(),
		human:   model.NewLedger(cfg.Start.Human),
		ai:      model.NewLedger(cfg.Start.AI),
		turns:   turn.NewScheduler(cfg.Turn.Duration),
	}
	g.economy = economy.New(cfg.Economy, difficulty.IncomeScale(), g.world, g.human, g.ai, catalog, cfg.Field)
	g.economy.OnSpawn = g.emitSpawned

	g.engine, err = rules.NewEngine(rules.Config{
		Strategy:         strategy,
		Difficulty:       difficulty,
		DecisionInterval: cfg.AI.DecisionInterval,
		ScoreThreshold:   cfg.AI.ScoreThreshold,
		FallbackRatio:    cfg.AI.FallbackRatio,
		DiagnosticsEvery: cfg.AI.DiagnosticsEvery,
		Overrides:        cfg.AI.Scores,
	}, rules.Board{World: g.world, Ledger: g.ai, Catalog: catalog, Field: cfg.Field})
	if err != nil {
		return nil, fmt.Errorf("ai engine: %w", err)
	}

	g.movement = movement.NewArbiter(g.world)
	g.combat = combat.NewResolver(g.world)
	g.combat.OnDestroyed = g.emitDestroyed
	g.victory = victory.NewEvaluator(g.world, cfg.Victory.VictoryDelay, cfg.Victory.DefeatDelay)

	g.Reset()
	return g, nil
}

func (g *Game) MatchID() uuid.UUID { return g.matchID }

func (g *Game) World() *model.World { return g.world }

func (g *Game) Turn() turn.State { return g.turns.State() }

func (g *Game) Ledger(f model.Faction) model.Resources {
	if f == model.AI {
		return g.ai.Balance()
	}
	return g.human.Balance()
}

func (g *Game) Ended() bool { return g.victory.Ended() }

// Reset starts a new match: presets on both ledgers, turn 1 with the human to
// move, a fresh arena with towers and the AI's starting farm.
func (g *Game) Reset() {
	g.matchID = uuid.New()
	g.now, g.tick = 0, 0
	g.pending = model.KindNone
	g.events = nil

	g.human.Reset(g.cfg.Start.Human)
	g.ai.Reset(g.cfg.Start.AI)
	g.turns.Reset()
	g.world.Clear()

	for _, side := range []model.Faction{model.Human, model.AI} {
		for _, pos := range g.field.TowerSites(side, g.cfg.Towers.PerSide) {
			if _, err := g.spawn(model.Tower, side, pos); err != nil {
				slog.Error("spawn tower", "side", side, "error", err)
			}
		}
	}
	if _, err := g.spawn(model.ForestFarm, model.AI, g.field.PlacementZone(model.AI).Center()); err != nil {
		slog.Error("spawn ai farm", "error", err)
	}

	g.economy.Reset()
	g.economy.MarkSeeded()
	g.victory.Reset()
	g.engine.Reset()
	g.events = nil
	slog.Info("new game", "match", g.matchID, "human", g.human.Balance(), "ai", g.ai.Balance())
}

func (g *Game) spawn(k model.Kind, f model.Faction, pos model.Vec3) (*model.Entity, error) {
	spec, err := g.catalog.Lookup(k)
	if err != nil {
		return nil, err
	}
	e := spec.Spawn(f, pos)
	g.world.Add(e)
	g.emitSpawned(e)
	return e, nil
}

// Step advances the simulation by dt seconds and returns everything that
// happened since the previous step, including effects of intents applied in
// between. dt is clamped to [0, max_delta].
func (g *Game) Step(dt float64) []Event {
	if dt <= 0 {
		return g.drain()
	}
	dt = min(dt, g.cfg.Host.MaxDelta)
	g.now += dt
	g.tick++

	if g.turns.Advance(dt) > 0 {
		st := g.turns.State()
		cur := st.Current
		g.emit(Event{Kind: EventTurnChanged, Faction: &cur, Turn: &st})
	}

	g.economy.Update(dt)

	if !g.victory.Ended() {
		if bought := g.engine.Update(g.now, g.turns.Current()); bought != nil {
			spec, _ := g.catalog.Lookup(bought.Kind)
			g.emitPurchased(bought, spec.Cost)
			g.emitSpawned(bought)
		}
	}

	g.movement.Update(dt)
	g.combat.Update(g.now)

	switch g.victory.Update(dt) {
	case victory.SignalVictory:
		g.emit(Event{Kind: EventVictory})
	case victory.SignalDefeat:
		g.emit(Event{Kind: EventDefeat})
	case victory.SignalReturnToMenu:
		g.emit(Event{Kind: EventReturnToMenu})
	}
	return g.drain()
}
