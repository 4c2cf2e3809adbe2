package combat

import (
	"testing"

	"github.com/nstehr/vimy/vimy-sim/model"
	"pgregory.net/rapid"
)

func spawn(w *model.World, k model.Kind, f model.Faction, pos model.Vec3) *model.Entity {
	e := model.DefaultCatalog()[k].Spawn(f, pos)
	w.Add(e)
	return e
}

func TestFiresAtNearestHostileInRange(t *testing.T) {
	w := model.NewWorld()
	shooter := spawn(w, model.Infantry, model.Human, model.Vec3{})
	far := spawn(w, model.Infantry, model.AI, model.Vec3{X: 3.5})
	nearest := spawn(w, model.Infantry, model.AI, model.Vec3{X: 2})
	friend := spawn(w, model.Infantry, model.Human, model.Vec3{X: 1})
	friend.Weapon = nil

	NewResolver(w).Update(0)

	if nearest.Health != nearest.MaxHealth-shooter.Weapon.Damage {
		t.Errorf("nearest hostile health = %v", nearest.Health)
	}
	if far.Health != far.MaxHealth {
		t.Errorf("farther hostile hit: %v", far.Health)
	}
	if friend.Health != friend.MaxHealth {
		t.Errorf("friendly fire: %v", friend.Health)
	}
}

func TestTieBreaksOnLowerID(t *testing.T) {
	w := model.NewWorld()
	spawn(w, model.Infantry, model.Human, model.Vec3{})
	first := spawn(w, model.Infantry, model.AI, model.Vec3{X: 3})
	second := spawn(w, model.Infantry, model.AI, model.Vec3{X: -3})
	// Keep the victims from shooting back.
	first.Weapon, second.Weapon = nil, nil

	NewResolver(w).Update(0)

	if first.Health == first.MaxHealth || second.Health != second.MaxHealth {
		t.Errorf("first=%v second=%v, want lower id hit", first.Health, second.Health)
	}
}

func TestPreferredAttackTarget(t *testing.T) {
	w := model.NewWorld()
	shooter := spawn(w, model.Tank, model.Human, model.Vec3{})
	nearer := spawn(w, model.Trench, model.AI, model.Vec3{X: 1})
	ordered := spawn(w, model.Infantry, model.AI, model.Vec3{X: 5})
	nearer.Weapon, ordered.Weapon = nil, nil
	shooter.AttackTarget = ordered.ID

	NewResolver(w).Update(0)

	if ordered.Health != ordered.MaxHealth-20 {
		t.Errorf("ordered target health = %v", ordered.Health)
	}
	if nearer.Health != nearer.MaxHealth {
		t.Errorf("nearer target hit: %v", nearer.Health)
	}
}

func TestPreferredTargetOutOfRangeFallsBack(t *testing.T) {
	w := model.NewWorld()
	shooter := spawn(w, model.Infantry, model.Human, model.Vec3{})
	nearby := spawn(w, model.Infantry, model.AI, model.Vec3{X: 2})
	ordered := spawn(w, model.Infantry, model.AI, model.Vec3{X: 30})
	nearby.Weapon, ordered.Weapon = nil, nil
	shooter.AttackTarget = ordered.ID

	NewResolver(w).Update(0)

	if nearby.Health == nearby.MaxHealth {
		t.Error("fallback target not hit")
	}
	if shooter.AttackTarget != ordered.ID {
		t.Error("living out-of-range attack target was dropped")
	}
}

func TestCooldownGatesFire(t *testing.T) {
	w := model.NewWorld()
	shooter := spawn(w, model.Tank, model.Human, model.Vec3{})
	target := spawn(w, model.Tower, model.AI, model.Vec3{X: 2})
	r := NewResolver(w)

	for _, now := range []float64{0, 0.5, 1, 1.99, 2, 3.5, 4} {
		r.Update(now)
	}
	// Shots at 0, 2 and 4.
	if got := target.MaxHealth - target.Health; got != 60 {
		t.Errorf("damage = %v, want 60", got)
	}
	if shooter.Weapon.LastShot != 4 {
		t.Errorf("LastShot = %v, want 4", shooter.Weapon.LastShot)
	}
}

func TestDeathRemovesAndReportsOnce(t *testing.T) {
	w := model.NewWorld()
	a := spawn(w, model.Tank, model.Human, model.Vec3{})
	b := spawn(w, model.Tank, model.Human, model.Vec3{X: 1})
	victim := spawn(w, model.Infantry, model.AI, model.Vec3{X: 3})
	victim.Health = 15
	other := spawn(w, model.Infantry, model.AI, model.Vec3{X: 4})
	other.Weapon = nil
	victim.Weapon = nil

	var destroyed []model.EntityID
	var killers []model.EntityID
	r := NewResolver(w)
	r.OnDestroyed = func(v *model.Entity, killer model.EntityID) {
		destroyed = append(destroyed, v.ID)
		killers = append(killers, killer)
	}

	r.Update(0)

	if len(destroyed) != 1 || destroyed[0] != victim.ID || killers[0] != a.ID {
		t.Fatalf("destroyed=%v killers=%v, want victim killed by lower id", destroyed, killers)
	}
	if _, ok := w.Get(victim.ID); ok {
		t.Error("victim still in arena")
	}
	// The second shooter retargets to the surviving hostile in the same tick.
	if other.Health != other.MaxHealth-b.Weapon.Damage {
		t.Errorf("other health = %v", other.Health)
	}
}

func TestVanishedAttackTargetIsCleared(t *testing.T) {
	w := model.NewWorld()
	shooter := spawn(w, model.Infantry, model.Human, model.Vec3{})
	shooter.AttackTarget = 999

	NewResolver(w).Update(0)

	if shooter.AttackTarget != 0 {
		t.Errorf("AttackTarget = %v, want cleared", shooter.AttackTarget)
	}
}

// A weapon never fires twice within its cooldown, whatever the tick spacing.
func TestCooldownProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := model.NewWorld()
		shooter := spawn(w, model.Infantry, model.Human, model.Vec3{})
		target := spawn(w, model.Tower, model.AI, model.Vec3{X: 1})
		target.Health = 1e9
		r := NewResolver(w)

		var shots []float64
		prev := target.Health
		now := 0.0
		for i, n := 0, rapid.IntRange(1, 200).Draw(t, "ticks"); i < n; i++ {
			now += rapid.Float64Range(0, 0.7).Draw(t, "dt")
			r.Update(now)
			if target.Health != prev {
				shots = append(shots, now)
				prev = target.Health
			}
		}
		for i := 1; i < len(shots); i++ {
			if shots[i]-shots[i-1] < shooter.Weapon.Cooldown {
				t.Fatalf("shots at %v and %v closer than cooldown", shots[i-1], shots[i])
			}
		}
	})
}
