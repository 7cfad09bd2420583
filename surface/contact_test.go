package surface

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/probe"
)

func TestAggregateEmpty(t *testing.T) {
	c := Aggregate(nil)
	if c != (Contact{}) {
		t.Fatalf("expected zero contact, got %+v", c)
	}
	if c.Valid() {
		t.Fatalf("zero contact must not be valid")
	}
}

func TestAggregateMean(t *testing.T) {
	c := Aggregate([]probe.Hit{
		{ImpactPoint: mgl64.Vec3{100, -10, 50}, ImpactNormal: mgl64.Vec3{-1, 0, 0}},
		{ImpactPoint: mgl64.Vec3{100, 10, 70}, ImpactNormal: mgl64.Vec3{0, -1, 0}},
	})
	if c.Location != (mgl64.Vec3{100, 0, 60}) {
		t.Fatalf("unexpected location %v", c.Location)
	}
	want := mgl64.Vec3{-1, -1, 0}.Normalize()
	if !game.Vec3ApproxEq(c.Normal, want, 1e-9) {
		t.Fatalf("expected normal %v, got %v", want, c.Normal)
	}
	if !c.Valid() {
		t.Fatalf("expected a valid contact")
	}
}

func TestAggregateOpposingNormals(t *testing.T) {
	c := Aggregate([]probe.Hit{
		{ImpactPoint: mgl64.Vec3{0, 0, 0}, ImpactNormal: mgl64.Vec3{1, 0, 0}},
		{ImpactPoint: mgl64.Vec3{10, 0, 0}, ImpactNormal: mgl64.Vec3{-1, 0, 0}},
	})
	for i := range 3 {
		if math.IsNaN(c.Normal[i]) {
			t.Fatalf("normal has NaN component: %v", c.Normal)
		}
	}
	if c.Valid() {
		t.Fatalf("cancelled normals must not produce a valid contact")
	}
	if c.Location != (mgl64.Vec3{5, 0, 0}) {
		t.Fatalf("unexpected location %v", c.Location)
	}
}
