package model

import "fmt"

// WeaponSpec is the template a spawned unit's Weapon is built from.
type WeaponSpec struct {
	Cooldown float64
	Range    float64
	Damage   float64
}

// ProductionSpec is the template for a building's Production.
type ProductionSpec struct {
	CurrencyRate  float64
	Secondary     ResourceKind
	SecondaryRate float64
	IronUse       float64
	StartsActive  bool // only for the human side; AI buildings always start active
}

// Spec is one row of the catalog lookup table.
type Spec struct {
	Kind        Kind
	Purchasable bool
	Cost        Resources
	Health      float64
	Speed       float64
	Altitude    float64
	Weapon      *WeaponSpec
	Production  *ProductionSpec
}

// Catalog maps every entity kind to its stats and cost.
type Catalog map[Kind]Spec

// DefaultCatalog returns the stock balance table. Callers own the returned map.
func DefaultCatalog() Catalog {
	return Catalog{
		Infantry: {
			Kind: Infantry, Purchasable: true,
			Cost:   Resources{Currency: 2, Wood: 1},
			Health: 50, Speed: 3,
			Weapon: &WeaponSpec{Cooldown: 1, Range: 4, Damage: 5},
		},
		Tank: {
			Kind: Tank, Purchasable: true,
			Cost:   Resources{Currency: 3, Wood: 2, Iron: 2, Steel: 3, Oil: 5},
			Health: 150, Speed: 2,
			Weapon: &WeaponSpec{Cooldown: 2, Range: 6, Damage: 20},
		},
		Aircraft: {
			Kind: Aircraft, Purchasable: true,
			Cost:   Resources{Currency: 5, Iron: 2, Steel: 2, Oil: 3},
			Health: 80, Speed: 5, Altitude: 8,
			Weapon: &WeaponSpec{Cooldown: 1.5, Range: 10, Damage: 12},
		},
		Trench: {
			Kind: Trench, Purchasable: true,
			Cost:   Resources{Currency: 1, Wood: 2},
			Health: 200,
			Weapon: &WeaponSpec{Cooldown: 1, Range: 5, Damage: 4},
		},
		Tower: {
			Kind:   Tower,
			Health: 500,
		},
		ForestFarm: {
			Kind: ForestFarm, Purchasable: true,
			Cost:       Resources{Currency: 2},
			Health:     100,
			Production: &ProductionSpec{CurrencyRate: 0.5, Secondary: Wood, SecondaryRate: 0.2, StartsActive: true},
		},
		Mine: {
			Kind: Mine, Purchasable: true,
			Cost:       Resources{Currency: 4, Wood: 2},
			Health:     100,
			Production: &ProductionSpec{CurrencyRate: 0.2, Secondary: Iron, SecondaryRate: 0.2},
		},
		SteelFactory: {
			Kind: SteelFactory, Purchasable: true,
			Cost:       Resources{Currency: 6, Wood: 3, Iron: 2},
			Health:     120,
			Production: &ProductionSpec{CurrencyRate: 0.3, Secondary: Steel, SecondaryRate: 0.1, IronUse: 0.1},
		},
		PetrochemicalPlant: {
			Kind: PetrochemicalPlant, Purchasable: true,
			Cost:       Resources{Currency: 8, Wood: 2, Iron: 3, Steel: 1},
			Health:     120,
			Production: &ProductionSpec{CurrencyRate: 0.3, Secondary: Oil, SecondaryRate: 0.1},
		},
	}
}

// Lookup returns the spec for k.
func (c Catalog) Lookup(k Kind) (Spec, error) {
	s, ok := c[k]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownItem, k)
	}
	return s, nil
}

// Purchase looks up a purchasable item.
func (c Catalog) Purchase(k Kind) (Spec, error) {
	s, err := c.Lookup(k)
	if err != nil {
		return Spec{}, err
	}
	if !s.Purchasable {
		return Spec{}, fmt.Errorf("%w: %s is not for sale", ErrUnknownItem, k)
	}
	return s, nil
}

// Spawn builds a fresh entity record for faction f at pos. Altitude replaces
// pos.Y. The returned entity has no id until added to a World.
func (s Spec) Spawn(f Faction, pos Vec3) *Entity {
	pos.Y = s.Altitude
	e := &Entity{
		Kind:      s.Kind,
		Faction:   f,
		Position:  pos,
		Health:    s.Health,
		MaxHealth: s.Health,
		Speed:     s.Speed,
	}
	if s.Weapon != nil {
		e.Weapon = &Weapon{Cooldown: s.Weapon.Cooldown, Range: s.Weapon.Range, Damage: s.Weapon.Damage}
	}
	if p := s.Production; p != nil {
		e.Production = &Production{
			Active:        p.StartsActive || f == AI,
			CurrencyRate:  p.CurrencyRate,
			Secondary:     p.Secondary,
			SecondaryRate: p.SecondaryRate,
			IronUse:       p.IronUse,
		}
	}
	return e
}
