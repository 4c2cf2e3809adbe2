// Package config holds the balance and host settings. Every field has a
// default; a yaml file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Cadence selects how human production is credited.
type Cadence string

const (
	// CadenceDual keeps both the batched timer and the continuous per-tick
	// wood/iron accrual. Wood and iron from mines are credited twice.
	CadenceDual Cadence = "dual"
	// CadenceBatched disables the continuous path and folds forest-farm wood
	// into the batch.
	CadenceBatched Cadence = "batched"
)

type Config struct {
	Host    HostConfig    `yaml:"host"`
	Field   model.Field   `yaml:"field"`
	Turn    TurnConfig    `yaml:"turn"`
	Economy EconomyConfig `yaml:"economy"`
	AI      AIConfig      `yaml:"ai"`
	Start   StartConfig   `yaml:"start"`
	Towers  TowerConfig   `yaml:"towers"`
	Victory VictoryConfig `yaml:"victory"`

	// Costs overrides catalog prices by item name, e.g. "tank".
	Costs map[string]model.Resources `yaml:"costs"`
}

type HostConfig struct {
	TickRate      float64 `yaml:"tick_rate"`      // ticks per wall-clock second
	MaxDelta      float64 `yaml:"max_delta"`      // largest dt fed to one step
	SnapshotEvery int     `yaml:"snapshot_every"` // ticks between published snapshots
}

type TurnConfig struct {
	Duration float64 `yaml:"duration"`
}

type EconomyConfig struct {
	BatchInterval float64 `yaml:"batch_interval"`
	Cadence       Cadence `yaml:"cadence"`
	// AIMultipliers scale the AI's continuous income per resource kind.
	AIMultipliers model.Resources `yaml:"ai_multipliers"`
	// AIGrant is credited once if the AI ledger is seen empty before it was seeded.
	AIGrant model.Resources `yaml:"ai_grant"`
}

type AIConfig struct {
	Strategy         string            `yaml:"strategy"`
	Difficulty       string            `yaml:"difficulty"`
	DecisionInterval float64           `yaml:"decision_interval"`
	ScoreThreshold   float64           `yaml:"score_threshold"`
	FallbackRatio    float64           `yaml:"fallback_ratio"`
	DiagnosticsEvery float64           `yaml:"diagnostics_every"`
	Scores           map[string]string `yaml:"scores"` // rule name → expr override
}

type StartConfig struct {
	Human model.Resources `yaml:"human"`
	AI    model.Resources `yaml:"ai"`
}

type TowerConfig struct {
	PerSide int `yaml:"per_side"`
}

type VictoryConfig struct {
	VictoryDelay float64 `yaml:"victory_delay"`
	DefeatDelay  float64 `yaml:"defeat_delay"`
}

func Default() Config {
	return Config{
		Host: HostConfig{
			TickRate:      30,
			MaxDelta:      0.1,
			SnapshotEvery: 6,
		},
		Field: model.Field{Width: 100, Depth: 100},
		Turn:  TurnConfig{Duration: 20},
		Economy: EconomyConfig{
			BatchInterval: 0.5,
			Cadence:       CadenceDual,
			AIMultipliers: model.Resources{Currency: 1.5, Wood: 1.2, Iron: 1.2, Steel: 1, Oil: 1},
			AIGrant:       model.Resources{Currency: 60, Wood: 8, Iron: 5, Steel: 1, Oil: 1},
		},
		AI: AIConfig{
			Strategy:         "balanced",
			Difficulty:       "normal",
			DecisionInterval: 1,
			ScoreThreshold:   0.3,
			FallbackRatio:    10,
			DiagnosticsEvery: 10,
		},
		Start: StartConfig{
			Human: model.Resources{Currency: 10, Wood: 5, Iron: 3},
			AI:    model.Resources{Currency: 60, Wood: 8, Iron: 5, Steel: 1, Oil: 1},
		},
		Towers:  TowerConfig{PerSide: 2},
		Victory: VictoryConfig{VictoryDelay: 3, DefeatDelay: 3},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	positive("host.tick_rate", c.Host.TickRate)
	positive("host.max_delta", c.Host.MaxDelta)
	positive("field.width", c.Field.Width)
	positive("field.depth", c.Field.Depth)
	positive("turn.duration", c.Turn.Duration)
	positive("economy.batch_interval", c.Economy.BatchInterval)
	positive("ai.decision_interval", c.AI.DecisionInterval)
	positive("victory.victory_delay", c.Victory.VictoryDelay)
	positive("victory.defeat_delay", c.Victory.DefeatDelay)

	if c.Host.SnapshotEvery < 1 {
		errs = append(errs, fmt.Errorf("host.snapshot_every must be at least 1, got %d", c.Host.SnapshotEvery))
	}
	if c.Towers.PerSide < 1 {
		errs = append(errs, fmt.Errorf("towers.per_side must be at least 1, got %d", c.Towers.PerSide))
	}
	switch c.Economy.Cadence {
	case CadenceDual, CadenceBatched:
	default:
		errs = append(errs, fmt.Errorf("economy.cadence must be %q or %q, got %q", CadenceDual, CadenceBatched, c.Economy.Cadence))
	}
	for name, r := range map[string]model.Resources{
		"start.human":            c.Start.Human,
		"start.ai":               c.Start.AI,
		"economy.ai_grant":       c.Economy.AIGrant,
		"economy.ai_multipliers": c.Economy.AIMultipliers,
	} {
		if !r.NonNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative: %+v", name, r))
		}
	}
	for item, cost := range c.Costs {
		if _, err := model.ParseKind(item); err != nil {
			errs = append(errs, fmt.Errorf("costs: %w", err))
		}
		if !cost.NonNegative() {
			errs = append(errs, fmt.Errorf("costs.%s must not be negative", item))
		}
	}
	return errors.Join(errs...)
}

// Catalog returns the default catalog with cost overrides applied.
func (c Config) Catalog() (model.Catalog, error) {
	cat := model.DefaultCatalog()
	for item, cost := range c.Costs {
		k, err := model.ParseKind(item)
		if err != nil {
			return nil, err
		}
		spec, ok := cat[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownItem, item)
		}
		spec.Cost = cost
		cat[k] = spec
	}
	return cat, nil
}
