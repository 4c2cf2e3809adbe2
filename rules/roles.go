package rules

import "github.com/nstehr/vimy/vimy-sim/model"

// Rule categories. Diagnostics report the AI's holdings per category.
const (
	CategoryArmy    = "army"
	CategoryEconomy = "economy"
	CategoryDefense = "defense"
)

// categories is the static registry of item kind to category.
var categories = map[model.Kind]string{
	model.Infantry:           CategoryArmy,
	model.Tank:               CategoryArmy,
	model.Aircraft:           CategoryArmy,
	model.ForestFarm:         CategoryEconomy,
	model.Mine:               CategoryEconomy,
	model.SteelFactory:       CategoryEconomy,
	model.PetrochemicalPlant: CategoryEconomy,
	model.Trench:             CategoryDefense,
	model.Tower:              CategoryDefense,
}

func categoryOf(k model.Kind) string {
	return categories[k]
}

// countCategory counts the entries of owned whose kind belongs to category.
func countCategory(owned map[model.Kind]int, category string) int {
	n := 0
	for k, c := range owned {
		if categories[k] == category {
			n += c
		}
	}
	return n
}
