package movement

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/vimy-sim/model"
)

func spawn(w *model.World, k model.Kind, f model.Faction, pos model.Vec3) *model.Entity {
	e := model.DefaultCatalog()[k].Spawn(f, pos)
	w.Add(e)
	return e
}

func TestStepTowardOrder(t *testing.T) {
	w := model.NewWorld()
	inf := spawn(w, model.Infantry, model.Human, model.Vec3{X: 0, Z: 0})
	inf.Order = &model.Order{Target: model.Vec3{X: 0, Z: 20}}

	NewArbiter(w).Update(1)

	if inf.Position.Z != 3 || inf.Position.X != 0 {
		t.Errorf("position = %+v, want z=3", inf.Position)
	}
	if inf.Heading != 0 {
		t.Errorf("heading = %v, want 0 facing +z", inf.Heading)
	}
	if inf.Order == nil {
		t.Error("order cleared early")
	}
}

func TestOrderClearedWithinReach(t *testing.T) {
	w := model.NewWorld()
	inf := spawn(w, model.Infantry, model.Human, model.Vec3{})
	inf.Order = &model.Order{Target: model.Vec3{X: 6}}

	a := NewArbiter(w)
	a.Update(1) // 3 units moved, 3 remaining, range 4

	if inf.Order != nil {
		t.Errorf("order still set at %+v", inf.Position)
	}
	if math.Abs(inf.Heading-math.Pi/2) > 1e-9 {
		t.Errorf("heading = %v, want pi/2", inf.Heading)
	}

	before := inf.Position
	a.Update(1)
	if inf.Position != before {
		t.Errorf("unit moved without an order: %+v", inf.Position)
	}
}

func TestStepDoesNotOvershoot(t *testing.T) {
	w := model.NewWorld()
	ac := spawn(w, model.Aircraft, model.Human, model.Vec3{})
	ac.Weapon = nil
	ac.Order = &model.Order{Target: model.Vec3{X: 3, Z: 4}}

	NewArbiter(w).Update(10)

	if ac.Position.X != 3 || ac.Position.Z != 4 {
		t.Errorf("position = %+v, want (3, 4)", ac.Position)
	}
	if ac.Position.Y != 8 {
		t.Errorf("altitude = %v, want 8", ac.Position.Y)
	}
	if ac.Order != nil {
		t.Error("order not cleared on arrival")
	}
}

func TestImmobileEntitiesStay(t *testing.T) {
	w := model.NewWorld()
	tr := spawn(w, model.Trench, model.AI, model.Vec3{X: 5, Z: 90})
	spawn(w, model.Infantry, model.Human, model.Vec3{X: 5, Z: 10})

	NewArbiter(w).Update(1)

	if tr.Order != nil || tr.Position != (model.Vec3{X: 5, Z: 90}) {
		t.Errorf("trench moved: %+v", tr)
	}
}

func TestAIAcquiresNearestNonProductionEnemy(t *testing.T) {
	w := model.NewWorld()
	tank := spawn(w, model.Tank, model.AI, model.Vec3{X: 50, Z: 80})
	spawn(w, model.ForestFarm, model.Human, model.Vec3{X: 50, Z: 70})
	near := spawn(w, model.Infantry, model.Human, model.Vec3{X: 40, Z: 50})
	spawn(w, model.Tower, model.Human, model.Vec3{X: 50, Z: 5})

	NewArbiter(w).Update(0.1)

	if tank.Order == nil {
		t.Fatal("ai tank stayed idle")
	}
	if tank.Order.Target != near.Position {
		t.Errorf("target = %+v, want infantry at %+v", tank.Order.Target, near.Position)
	}
}

func TestAIIdleWithoutTargets(t *testing.T) {
	w := model.NewWorld()
	tank := spawn(w, model.Tank, model.AI, model.Vec3{X: 50, Z: 80})
	spawn(w, model.Mine, model.Human, model.Vec3{X: 50, Z: 30})

	NewArbiter(w).Update(1)

	if tank.Order != nil {
		t.Errorf("order = %+v, want none", tank.Order)
	}
}

func TestHumanUnitsDoNotAutoAcquire(t *testing.T) {
	w := model.NewWorld()
	inf := spawn(w, model.Infantry, model.Human, model.Vec3{X: 50, Z: 20})
	spawn(w, model.Infantry, model.AI, model.Vec3{X: 50, Z: 80})

	NewArbiter(w).Update(1)

	if inf.Order != nil {
		t.Errorf("human unit acquired %+v", inf.Order)
	}
}

func TestAircraftStopsWithinStrikeRange(t *testing.T) {
	w := model.NewWorld()
	ac := spawn(w, model.Aircraft, model.Human, model.Vec3{})
	target := model.Vec3{Z: 30}
	ac.Order = &model.Order{Target: target}

	a := NewArbiter(w)
	for i := 0; i < 100 && ac.Order != nil; i++ {
		a.Update(0.1)
	}

	if ac.Order != nil {
		t.Fatalf("order never cleared, at %+v", ac.Position)
	}
	if d := ac.Position.Distance(target); d > ac.Weapon.Range {
		t.Errorf("stopped %v from target, weapon range %v", d, ac.Weapon.Range)
	}
	if planar := ac.Position.PlanarDistance(target); planar < 5 {
		t.Errorf("planar distance = %v, flew closer than needed", planar)
	}
}
