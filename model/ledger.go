package model

import "fmt"

// Ledger is one faction's set of resource counters. Economy credits it,
// purchases debit it; no operation drives a counter below zero.
type Ledger struct {
	balance Resources
}

func NewLedger(start Resources) *Ledger {
	l := &Ledger{}
	l.Reset(start)
	return l
}

func (l *Ledger) Balance() Resources { return l.balance }

// Credit adds r. Negative components are ignored.
func (l *Ledger) Credit(r Resources) {
	l.balance = l.balance.Add(r.positive())
}

// Debit removes cost from every counter at once, or nothing at all when any
// counter would go negative.
func (l *Ledger) Debit(cost Resources) error {
	cost = cost.positive()
	if short := l.balance.Shortfall(cost); len(short) > 0 {
		return fmt.Errorf("%w: short of %v", ErrInsufficientResources, short)
	}
	l.balance = l.balance.Sub(cost)
	return nil
}

// Reset replaces the balance, clamping negative presets to zero.
func (l *Ledger) Reset(start Resources) {
	l.balance = start.positive()
}
