package model

import (
	"fmt"
	"strings"
)

// ResourceKind names one of the five ledger counters.
type ResourceKind uint8

const (
	Currency ResourceKind = iota
	Wood
	Iron
	Steel
	Oil
)

// ResourceKinds lists every kind in ledger order.
var ResourceKinds = []ResourceKind{Currency, Wood, Iron, Steel, Oil}

var resourceNames = [...]string{"currency", "wood", "iron", "steel", "oil"}

func (k ResourceKind) String() string {
	if int(k) < len(resourceNames) {
		return resourceNames[k]
	}
	return fmt.Sprintf("resource(%d)", uint8(k))
}

func (k ResourceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ResourceKind) UnmarshalText(b []byte) error {
	for i, n := range resourceNames {
		if strings.EqualFold(n, string(b)) {
			*k = ResourceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown resource kind %q", b)
}

// Resources holds an amount of every resource kind. It is used for balances,
// costs and per-tick deltas alike.
type Resources struct {
	Currency float64 `json:"currency" yaml:"currency"`
	Wood     float64 `json:"wood" yaml:"wood"`
	Iron     float64 `json:"iron" yaml:"iron"`
	Steel    float64 `json:"steel" yaml:"steel"`
	Oil      float64 `json:"oil" yaml:"oil"`
}

// Of returns a Resources value with only kind k set.
func Of(k ResourceKind, v float64) Resources {
	var r Resources
	*r.field(k) = v
	return r
}

func (r *Resources) field(k ResourceKind) *float64 {
	switch k {
	case Wood:
		return &r.Wood
	case Iron:
		return &r.Iron
	case Steel:
		return &r.Steel
	case Oil:
		return &r.Oil
	default:
		return &r.Currency
	}
}

// Get returns the amount of kind k.
func (r Resources) Get(k ResourceKind) float64 {
	return *r.field(k)
}

func (r Resources) Add(o Resources) Resources {
	return Resources{
		Currency: r.Currency + o.Currency,
		Wood:     r.Wood + o.Wood,
		Iron:     r.Iron + o.Iron,
		Steel:    r.Steel + o.Steel,
		Oil:      r.Oil + o.Oil,
	}
}

func (r Resources) Sub(o Resources) Resources {
	return r.Add(o.Scale(-1))
}

func (r Resources) Scale(f float64) Resources {
	return Resources{
		Currency: r.Currency * f,
		Wood:     r.Wood * f,
		Iron:     r.Iron * f,
		Steel:    r.Steel * f,
		Oil:      r.Oil * f,
	}
}

// Mul multiplies componentwise.
func (r Resources) Mul(o Resources) Resources {
	return Resources{
		Currency: r.Currency * o.Currency,
		Wood:     r.Wood * o.Wood,
		Iron:     r.Iron * o.Iron,
		Steel:    r.Steel * o.Steel,
		Oil:      r.Oil * o.Oil,
	}
}

// Covers reports whether every kind in r is at least the amount in cost.
func (r Resources) Covers(cost Resources) bool {
	return len(r.Shortfall(cost)) == 0
}

// Shortfall lists the kinds for which r holds less than cost.
func (r Resources) Shortfall(cost Resources) []ResourceKind {
	var short []ResourceKind
	for _, k := range ResourceKinds {
		if r.Get(k) < cost.Get(k) {
			short = append(short, k)
		}
	}
	return short
}

// NonNegative reports whether no component is below zero.
func (r Resources) NonNegative() bool {
	for _, k := range ResourceKinds {
		if r.Get(k) < 0 {
			return false
		}
	}
	return true
}

// positive drops negative components so a credit can never lower a balance.
func (r Resources) positive() Resources {
	for _, k := range ResourceKinds {
		if p := r.field(k); *p < 0 {
			*p = 0
		}
	}
	return r
}
