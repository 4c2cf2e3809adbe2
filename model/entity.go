package model

import (
	"fmt"
	"math"
	"strings"
)

// Faction is one of the two opposing sides. Each owns exactly one ledger.
type Faction uint8

const (
	Human Faction = iota
	AI
)

func (f Faction) String() string {
	if f == AI {
		return "ai"
	}
	return "human"
}

func (f Faction) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Faction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "human", "player":
		*f = Human
	case "ai", "computer":
		*f = AI
	default:
		return fmt.Errorf("unknown faction %q", b)
	}
	return nil
}

// Kind tags an entity record. It doubles as the purchasable item enumeration.
type Kind uint8

const (
	KindNone Kind = iota
	Infantry
	Tank
	Aircraft
	Trench
	Tower
	ForestFarm
	Mine
	SteelFactory
	PetrochemicalPlant
)

var kindNames = [...]string{
	KindNone:           "",
	Infantry:           "infantry",
	Tank:               "tank",
	Aircraft:           "aircraft",
	Trench:             "trench",
	Tower:              "tower",
	ForestFarm:         "forest_farm",
	Mine:               "mine",
	SteelFactory:       "steel_factory",
	PetrochemicalPlant: "petrochemical_plant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the snake_case name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n != "" && strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownItem, s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsMobile reports whether the kind belongs to the mobile unit category that
// the AI counts when weighing infantry.
func (k Kind) IsMobile() bool {
	return k == Infantry || k == Tank || k == Aircraft
}

// IsProduction reports whether the kind is a resource-producing building.
func (k Kind) IsProduction() bool {
	return k == ForestFarm || k == Mine || k == SteelFactory || k == PetrochemicalPlant
}

// EntityID is a stable arena key. IDs are never reused within a World.
type EntityID uint32

// Vec3 is a world position. Units move on the x/z plane; y is altitude.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance is the straight-line distance, used for weapon range checks.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := o.X-v.X, o.Y-v.Y, o.Z-v.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PlanarDistance ignores altitude.
func (v Vec3) PlanarDistance(o Vec3) float64 {
	return math.Hypot(o.X-v.X, o.Z-v.Z)
}

// Weapon fires at most once per Cooldown seconds.
type Weapon struct {
	Cooldown float64
	Range    float64
	Damage   float64
	LastShot float64
	Fired    bool // false until the first shot; a fresh weapon is ready
}

// Ready reports whether the cooldown has elapsed at sim time now.
func (w *Weapon) Ready(now float64) bool {
	return !w.Fired || now-w.LastShot >= w.Cooldown
}

// Production converts elapsed time into income while Active.
type Production struct {
	Active        bool
	CurrencyRate  float64      // currency per second
	Secondary     ResourceKind // second resource produced
	SecondaryRate float64      // secondary per second
	IronUse       float64      // iron consumed per second to yield the secondary; 0 = no input
}

// Order is a pending movement destination.
type Order struct {
	Target Vec3
}

// Entity is one arena record: unit, tower, trench or production building.
type Entity struct {
	ID        EntityID
	Kind      Kind
	Faction   Faction
	Position  Vec3
	Heading   float64 // radians around the vertical axis, 0 faces +z
	Health    float64
	MaxHealth float64
	Speed     float64

	Weapon     *Weapon
	Production *Production
	Order      *Order

	// AttackTarget is the preferred victim set by an attack order; 0 means none.
	AttackTarget EntityID
}

func (e *Entity) Alive() bool { return e.Health > 0 }

// reachSlack keeps an arrived unit strictly inside the straight-line range
// check despite rounding.
const reachSlack = 1e-6

// Reach is the planar distance to target at which a movement order counts as
// arrived: the largest ground distance from which the weapon still covers the
// altitude difference. A target the weapon cannot reach from any distance
// gives 0, so the unit closes in fully.
func (e *Entity) Reach(target Vec3) float64 {
	if e.Weapon == nil {
		return 0
	}
	dy := target.Y - e.Position.Y
	r2 := e.Weapon.Range*e.Weapon.Range - dy*dy
	if r2 <= 0 {
		return 0
	}
	return max(0, math.Sqrt(r2)-reachSlack)
}

// Hostile reports whether o belongs to the other faction.
func (e *Entity) Hostile(o *Entity) bool {
	return e.Faction != o.Faction
}
