package rules

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/nstehr/vimy/vimy-sim/model"
)

// DefaultRules returns the stock scoring table. Order matters: equal scores
// keep this order after sorting.
func DefaultRules() []*Rule {
	return []*Rule{
		newRule(model.Infantry, `Aggression * UnitRatio`),
		newRule(model.Tank, `Aggression * 0.8`),
		newRule(model.Aircraft, `Aggression * 0.6`),
		newRule(model.Mine, `Economy * 2.0`),
		newRule(model.SteelFactory, `Economy * 1.5`),
		newRule(model.PetrochemicalPlant, `Economy * 1.2`),
		newRule(model.Trench, `Defense * 1.0`),
	}
}

func newRule(k model.Kind, src string) *Rule {
	return &Rule{Name: k.String(), Item: k, Category: categoryOf(k), ScoreSrc: src}
}

// ApplyOverrides replaces score expressions by rule name. A name that does
// not match an existing rule adds a rule for that item, so items outside
// the stock table (forest farms) can be scored too.
func ApplyOverrides(rules []*Rule, overrides map[string]string) ([]*Rule, error) {
	var errs []error
	byName := make(map[string]*Rule, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}
	// Stable ordering for added rules: catalog kind order.
	for k := model.Infantry; k <= model.PetrochemicalPlant; k++ {
		src, ok := overrides[k.String()]
		if !ok {
			continue
		}
		if k == model.Tower {
			errs = append(errs, fmt.Errorf("score override: %s is not for sale", k))
			continue
		}
		if r, exists := byName[k.String()]; exists {
			r.ScoreSrc = src
			continue
		}
		rules = append(rules, newRule(k, src))
	}
	for name := range overrides {
		if _, err := model.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("score override: %w", err))
		}
	}
	return rules, errors.Join(errs...)
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ScoreSrc, expr.Env(ScoreEnv{}), expr.AsFloat64())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	return rules, nil
}
