package rules

import (
	"errors"
	"math"
	"testing"

	"github.com/nstehr/vimy/vimy-sim/model"
)

func newBoard(ai model.Resources) Board {
	return Board{
		World:   model.NewWorld(),
		Ledger:  model.NewLedger(ai),
		Catalog: model.DefaultCatalog(),
		Field:   model.Field{Width: 100, Depth: 100},
	}
}

func newTestEngine(t *testing.T, s Strategy, b Board) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		Strategy:         s,
		DecisionInterval: 1,
		ScoreThreshold:   0.3,
		FallbackRatio:    10,
	}, b)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func spawn(b Board, k model.Kind, f model.Faction) {
	b.World.Add(b.Catalog[k].Spawn(f, model.Vec3{}))
}

func TestDefaultRulesCompile(t *testing.T) {
	rules, err := compileRules(DefaultRules())
	if err != nil {
		t.Fatalf("compileRules(DefaultRules()) failed: %v", err)
	}
	if len(rules) != 7 {
		t.Errorf("expected 7 rules, got %d", len(rules))
	}
	for _, r := range rules {
		if r.program == nil {
			t.Errorf("rule %s not compiled", r.Name)
		}
		if r.Category == "" {
			t.Errorf("rule %s has no category", r.Name)
		}
	}
}

// Economic AI with no units: infantry scores 0.1*10 = 1.0, mine 0.8*2 = 1.6,
// so the mine is bought first.
func TestEconomicBuysMineFirst(t *testing.T) {
	b := newBoard(model.Resources{Currency: 60, Wood: 8, Iron: 5, Steel: 1, Oil: 1})
	e := newTestEngine(t, Economic, b)

	got := e.Update(0, model.AI)
	if got == nil || got.Kind != model.Mine {
		t.Fatalf("bought %+v, want mine", got)
	}
	scores := map[string]float64{}
	for _, s := range e.LastScores() {
		scores[s.Rule.Name] = s.Value
	}
	if math.Abs(scores["infantry"]-1.0) > 1e-9 || math.Abs(scores["mine"]-1.6) > 1e-9 {
		t.Errorf("scores = %v", scores)
	}
	if bal := b.Ledger.Balance(); bal.Currency != 56 || bal.Wood != 6 {
		t.Errorf("balance after mine = %+v", bal)
	}
	if !got.Production.Active {
		t.Error("ai mine not active")
	}
	if !b.Field.PlacementZone(model.AI).Contains(got.Position) {
		t.Errorf("placed at %+v outside the ai zone", got.Position)
	}
}

func TestFallsThroughToAffordable(t *testing.T) {
	// Enough for infantry only: the mine (1.6) is skipped, steel factory and
	// petrochemical plant too, infantry (1.0) is next.
	b := newBoard(model.Resources{Currency: 3, Wood: 1})
	e := newTestEngine(t, Economic, b)

	got := e.Update(0, model.AI)
	if got == nil || got.Kind != model.Infantry {
		t.Fatalf("bought %+v, want infantry", got)
	}
	if bal := b.Ledger.Balance(); bal != (model.Resources{Currency: 1}) {
		t.Errorf("balance = %+v", bal)
	}
}

func TestNothingAffordableIsNoAction(t *testing.T) {
	b := newBoard(model.Resources{Currency: 1})
	e := newTestEngine(t, Balanced, b)

	if got := e.Update(0, model.AI); got != nil {
		t.Errorf("bought %+v with no money", got)
	}
	if b.World.Len() != 0 || b.Ledger.Balance().Currency != 1 {
		t.Error("state changed without a purchase")
	}
	if e.Behavior().Decisions != 1 {
		t.Errorf("decisions = %d, want 1", e.Behavior().Decisions)
	}
}

func TestScoresBelowThresholdSkipped(t *testing.T) {
	// Rusher: trench = 0.1 < 0.3 is the only thing affordable.
	b := newBoard(model.Resources{Currency: 1, Wood: 2})
	e := newTestEngine(t, Rusher, b)

	if got := e.Update(0, model.AI); got != nil {
		t.Errorf("bought %+v below threshold", got)
	}
}

func TestUnitRatio(t *testing.T) {
	b := newBoard(model.Resources{})
	spawn(b, model.Infantry, model.Human)
	spawn(b, model.Tank, model.Human)
	spawn(b, model.Aircraft, model.Human)
	spawn(b, model.Tower, model.Human)
	spawn(b, model.Infantry, model.AI)
	spawn(b, model.Trench, model.AI)

	env := newScoreEnv(DoctrineFor(Balanced), b.World, b.Ledger.Balance(), b.Catalog, 10, 0)
	if env.PlayerUnits != 3 || env.AIUnits != 1 || env.UnitRatio != 3 {
		t.Errorf("env = %+v", env)
	}
	if env.Owned("trench") != 1 || env.Owned("battleship") != 0 {
		t.Errorf("Owned counts wrong: %v", env.owned)
	}
}

func TestOnlyOnAITurn(t *testing.T) {
	b := newBoard(model.Resources{Currency: 60, Wood: 8, Iron: 5})
	e := newTestEngine(t, Balanced, b)

	if got := e.Update(0, model.Human); got != nil {
		t.Errorf("bought %+v on the human turn", got)
	}
	if e.Behavior().Decisions != 0 {
		t.Errorf("decided on human turn")
	}
}

func TestThrottledToDecisionInterval(t *testing.T) {
	b := newBoard(model.Resources{Currency: 1000, Wood: 1000, Iron: 1000, Steel: 1000, Oil: 1000})
	e := newTestEngine(t, Balanced, b)

	now := 0.0
	for range 30 {
		e.Update(now, model.AI)
		now += 0.1
	}
	// Decisions at 0, 1 and 2 (with float slop the third may land at 2.1).
	if got := e.Behavior().Decisions; got != 3 {
		t.Errorf("decisions = %d over 3s, want 3", got)
	}
	if b.World.Len() != 3 {
		t.Errorf("purchases = %d, want one per decision", b.World.Len())
	}
	if last := e.Behavior().LastDecision; last < 2 || last > 2.2 {
		t.Errorf("LastDecision = %v", last)
	}
}

func TestResetClearsThrottle(t *testing.T) {
	b := newBoard(model.Resources{Currency: 100, Wood: 100})
	e := newTestEngine(t, Balanced, b)

	e.Update(50, model.AI)
	e.Reset()
	if e.Behavior().Decisions != 0 || e.Behavior().LastDecision != -1 {
		t.Fatalf("behavior not reset: %+v", e.Behavior())
	}
	if e.Update(0, model.AI) == nil {
		t.Error("no decision at t=0 after reset")
	}
}

func TestOverrides(t *testing.T) {
	b := newBoard(model.Resources{Currency: 10})
	e, err := NewEngine(Config{
		Strategy:       Balanced,
		ScoreThreshold: 0.3,
		FallbackRatio:  10,
		Overrides:      map[string]string{"forest_farm": "Economy * 5", "infantry": "0.0"},
	}, b)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	got := e.Update(0, model.AI)
	if got == nil || got.Kind != model.ForestFarm {
		t.Errorf("bought %+v, want forest farm from override", got)
	}
}

// Cash and Affordable are only reachable from score overrides; every stock
// rule is silenced so the forest farm rule alone decides.
func TestOverrideHelpers(t *testing.T) {
	tests := []struct {
		name    string
		balance model.Resources
		src     string
		want    model.Kind
	}{
		{"cash above bar", model.Resources{Currency: 10}, `Cash() > 5 ? 1.0 : 0.0`, model.ForestFarm},
		{"cash below bar", model.Resources{Currency: 4}, `Cash() > 5 ? 1.0 : 0.0`, model.KindNone},
		{"cash scales score", model.Resources{Currency: 5}, `Cash() / 10`, model.ForestFarm},
		{"mine affordable", model.Resources{Currency: 10, Wood: 5}, `Affordable("mine") ? 0.0 : 1.0`, model.KindNone},
		{"mine unaffordable", model.Resources{Currency: 10}, `Affordable("mine") ? 0.0 : 1.0`, model.ForestFarm},
		{"unknown item never affordable", model.Resources{Currency: 10}, `Affordable("castle") ? 1.0 : 0.0`, model.KindNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			overrides := map[string]string{"forest_farm": tc.src}
			for _, r := range DefaultRules() {
				overrides[r.Name] = "0.0"
			}
			e, err := NewEngine(Config{
				Strategy:       Balanced,
				ScoreThreshold: 0.3,
				FallbackRatio:  10,
				Overrides:      overrides,
			}, newBoard(tc.balance))
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}
			got := e.Update(0, model.AI)
			switch {
			case tc.want == model.KindNone && got != nil:
				t.Errorf("bought %s, want nothing", got.Kind)
			case tc.want != model.KindNone && (got == nil || got.Kind != tc.want):
				t.Errorf("bought %+v, want %s", got, tc.want)
			}
		})
	}
}

func TestOverrideErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{"syntax", map[string]string{"tank": "Aggression *"}},
		{"not a number", map[string]string{"tank": `"high"`}},
		{"unknown field", map[string]string{"tank": "Greed * 2"}},
		{"unknown item", map[string]string{"battleship": "1"}},
		{"tower", map[string]string{"tower": "1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(Config{Overrides: tc.overrides}, newBoard(model.Resources{}))
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStableTieOrder(t *testing.T) {
	// Balanced with one unit each: infantry = 0.5, tank = 0.4, aircraft =
	// 0.3, trench = 0.5. Infantry and trench tie; infantry comes first.
	b := newBoard(model.Resources{})
	spawn(b, model.Infantry, model.Human)
	spawn(b, model.Infantry, model.AI)
	e := newTestEngine(t, Balanced, b)
	env := newScoreEnv(e.doctrine, b.World, b.Ledger.Balance(), b.Catalog, 10, 0)

	scores := e.score(env)
	idx := map[string]int{}
	for i, s := range scores {
		idx[s.Rule.Name] = i
	}
	if idx["infantry"] > idx["trench"] {
		t.Errorf("tie order lost: %v", idx)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].Value > scores[i-1].Value {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

func TestBuyIsAtomic(t *testing.T) {
	b := newBoard(model.Resources{Currency: 10, Wood: 5, Iron: 3})
	_, err := buy(b, model.Tank, 0)
	if !errors.Is(err, model.ErrInsufficientResources) {
		t.Fatalf("err = %v, want insufficient resources", err)
	}
	if b.Ledger.Balance() != (model.Resources{Currency: 10, Wood: 5, Iron: 3}) || b.World.Len() != 0 {
		t.Error("failed purchase changed state")
	}
}

func TestPlacementDeterministicAndInZone(t *testing.T) {
	f := model.Field{Width: 100, Depth: 100}
	zone := f.PlacementZone(model.AI)
	for _, elapsed := range []float64{0, 0.5, 1, 13.7, 250} {
		p := placement(f, elapsed)
		if !zone.Contains(p) {
			t.Errorf("placement(%v) = %+v outside zone", elapsed, p)
		}
		if placement(f, elapsed) != p {
			t.Errorf("placement(%v) not deterministic", elapsed)
		}
	}
}
