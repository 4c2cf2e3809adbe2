package rules

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/expr-lang/expr/vm"
	"golang.org/x/time/rate"

	"github.com/nstehr/vimy/vimy-sim/model"
)

// Config tunes the engine.
type Config struct {
	Strategy         Strategy
	Difficulty       Difficulty
	DecisionInterval float64           // simulated seconds between decisions
	ScoreThreshold   float64           // scores below this are never bought
	FallbackRatio    float64           // UnitRatio when the AI has no units
	DiagnosticsEvery float64           // simulated seconds between diagnostics lines
	Overrides        map[string]string // rule name → score expression
}

// Behavior is the observable AI state.
type Behavior struct {
	Strategy     Strategy   `json:"strategy"`
	Difficulty   Difficulty `json:"difficulty"`
	Weights      Doctrine   `json:"weights"`
	LastDecision float64    `json:"lastDecision"`
	Decisions    int        `json:"decisions"`
}

// Score is one rule's result in a decision.
type Score struct {
	Rule  *Rule
	Value float64
}

// Engine is the AI strategy engine. It runs only on the AI's turn and makes
// at most one decision per DecisionInterval of simulated time; each decision
// buys at most one item.
type Engine struct {
	cfg      Config
	doctrine Doctrine
	rules    []*Rule
	board    Board

	// The limiter runs on simulated time: epoch plus elapsed seconds.
	limiter *rate.Limiter
	epoch   time.Time

	behavior Behavior
	lastDiag float64
	last     []Score
}

// NewEngine compiles the score rules (with overrides applied) and fixes the
// strategy for the engine's lifetime.
func NewEngine(cfg Config, board Board) (*Engine, error) {
	if cfg.DecisionInterval <= 0 {
		cfg.DecisionInterval = 1
	}
	rules, err := ApplyOverrides(DefaultRules(), cfg.Overrides)
	if err != nil {
		return nil, err
	}
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	d := DoctrineFor(cfg.Strategy)
	d.Validate()
	e := &Engine{
		cfg:      cfg,
		doctrine: d,
		rules:    compiled,
		board:    board,
		epoch:    time.Unix(0, 0),
	}
	e.Reset()
	slog.Info("ai engine ready", "strategy", cfg.Strategy, "difficulty", cfg.Difficulty, "rules", len(compiled))
	return e, nil
}

// Reset clears the throttle and decision history for a new game.
func (e *Engine) Reset() {
	e.limiter = rate.NewLimiter(rate.Every(secondsToDuration(e.cfg.DecisionInterval)), 1)
	e.behavior = Behavior{
		Strategy:     e.cfg.Strategy,
		Difficulty:   e.cfg.Difficulty,
		Weights:      e.doctrine,
		LastDecision: -1,
	}
	e.lastDiag = 0
	e.last = nil
}

func (e *Engine) Behavior() Behavior { return e.behavior }

// LastScores returns the sorted scores of the most recent decision.
func (e *Engine) LastScores() []Score { return e.last }

// Update runs the engine for one tick at simulation time now. It returns the
// entity bought this tick, if any.
func (e *Engine) Update(now float64, current model.Faction) *model.Entity {
	if current != model.AI {
		return nil
	}
	if !e.limiter.AllowN(e.epoch.Add(secondsToDuration(now)), 1) {
		return nil
	}
	e.behavior.LastDecision = now
	e.behavior.Decisions++
	bought := e.Decide(now)
	e.logDiagnostics(now)
	return bought
}

// Decide scores every rule, then buys the best-scoring item that the AI
// ledger fully covers. Scores under the threshold are skipped.
func (e *Engine) Decide(now float64) *model.Entity {
	env := newScoreEnv(e.doctrine, e.board.World, e.board.Ledger.Balance(), e.board.Catalog, e.cfg.FallbackRatio, now)
	scores := e.score(env)
	e.last = scores

	for _, s := range scores {
		if s.Value < e.cfg.ScoreThreshold {
			continue
		}
		spec, err := e.board.Catalog.Purchase(s.Rule.Item)
		if err != nil {
			slog.Warn("rule names unpurchasable item", "rule", s.Rule.Name, "error", err)
			continue
		}
		if !env.Balance.Covers(spec.Cost) {
			continue
		}
		bought, err := buy(e.board, s.Rule.Item, now)
		if err != nil {
			slog.Error("ai purchase failed", "rule", s.Rule.Name, "error", err)
			continue
		}
		slog.Debug("rule fired", "rule", s.Rule.Name, "score", s.Value, "category", s.Rule.Category)
		return bought
	}
	return nil
}

func (e *Engine) score(env ScoreEnv) []Score {
	scores := make([]Score, 0, len(e.rules))
	for _, r := range e.rules {
		v, err := evalScore(r, env)
		if err != nil {
			slog.Warn("rule score error", "rule", r.Name, "error", err)
			continue
		}
		scores = append(scores, Score{Rule: r, Value: v})
	}
	slices.SortStableFunc(scores, func(a, b Score) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return scores
}

func evalScore(r *Rule, env ScoreEnv) (float64, error) {
	result, err := vm.Run(r.program, env)
	if err != nil {
		return 0, err
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("score is %T, not float64", result)
	}
	return v, nil
}

// logDiagnostics helps debug "why isn't the AI buying anything?" by dumping
// the ledger and the latest scores. Throttled on simulated time.
func (e *Engine) logDiagnostics(now float64) {
	if e.cfg.DiagnosticsEvery <= 0 || now-e.lastDiag < e.cfg.DiagnosticsEvery {
		return
	}
	e.lastDiag = now

	env := newScoreEnv(e.doctrine, e.board.World, e.board.Ledger.Balance(), e.board.Catalog, e.cfg.FallbackRatio, now)
	top := make([]string, 0, len(e.last))
	for _, s := range e.last {
		top = append(top, fmt.Sprintf("%s=%.2f", s.Rule.Name, s.Value))
	}
	slog.Info("ai diagnostics",
		"balance", env.Balance,
		"playerUnits", env.PlayerUnits,
		"aiUnits", env.AIUnits,
		"army", countCategory(env.owned, CategoryArmy),
		"economy", countCategory(env.owned, CategoryEconomy),
		"defense", countCategory(env.owned, CategoryDefense),
		"scores", top,
		"decisions", e.behavior.Decisions,
	)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
