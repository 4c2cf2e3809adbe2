package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-sim/model"
)

// Rule scores one purchasable item. The engine evaluates every rule on each
// decision and buys the best-scoring item it can afford.
type Rule struct {
	Name     string      // human-readable identifier, also the override key
	Item     model.Kind  // what gets bought when this rule wins
	Category string      // army, economy or defense; see categoryOf
	ScoreSrc string      // expr source (preserved for logging and overrides)
	program  *vm.Program // compiled bytecode
}
