package rules

import (
	"fmt"
	"strings"
)

// Strategy is the AI's posture, fixed when the game starts.
type Strategy uint8

const (
	Balanced Strategy = iota
	Rusher
	Defender
	Economic
)

var strategyNames = [...]string{"balanced", "rusher", "defender", "economic"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return Strategy(i), nil
		}
	}
	return Balanced, fmt.Errorf("unknown strategy %q", name)
}

// Doctrine is the weight triple a strategy maps to. Weights are 0.0–1.0 and
// are bound into every score expression.
type Doctrine struct {
	Name       string  `json:"name"`
	Aggression float64 `json:"aggression"`
	Economy    float64 `json:"economy"`
	Defense    float64 `json:"defense"`
}

// DoctrineFor returns the fixed weights of a strategy.
func DoctrineFor(s Strategy) Doctrine {
	switch s {
	case Rusher:
		return Doctrine{Name: "Rusher", Aggression: 0.8, Economy: 0.3, Defense: 0.1}
	case Defender:
		return Doctrine{Name: "Defender", Aggression: 0.3, Economy: 0.4, Defense: 0.9}
	case Economic:
		return Doctrine{Name: "Economic", Aggression: 0.1, Economy: 0.8, Defense: 0.3}
	default:
		return Doctrine{Name: "Balanced", Aggression: 0.5, Economy: 0.5, Defense: 0.5}
	}
}

// Validate clamps all weights to [0, 1].
func (d *Doctrine) Validate() {
	d.Aggression = clamp(d.Aggression, 0, 1)
	d.Economy = clamp(d.Economy, 0, 1)
	d.Defense = clamp(d.Defense, 0, 1)
}

// Difficulty scales the AI's income.
type Difficulty uint8

const (
	Normal Difficulty = iota
	Easy
	Hard
)

var difficultyNames = [...]string{"normal", "easy", "hard"}

func (d Difficulty) String() string {
	if int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("difficulty(%d)", uint8(d))
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func ParseDifficulty(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if strings.EqualFold(n, name) {
			return Difficulty(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown difficulty %q", name)
}

// IncomeScale is the factor applied to the AI's continuous income.
func (d Difficulty) IncomeScale() float64 {
	switch d {
	case Easy:
		return 0.75
	case Hard:
		return 1.25
	default:
		return 1
	}
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
