package game

import (
	"math"
	"testing"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func TestSafeNormalZeroVector(t *testing.T) {
	n := SafeNormal(mgl64.Vec3{1e-6, 0, 0})
	if n != (mgl64.Vec3{}) {
		t.Fatalf("expected zero vector, got %v", n)
	}
	for _, c := range n {
		if math.IsNaN(c) {
			t.Fatalf("SafeNormal produced NaN")
		}
	}
}

func TestProjectOnTo(t *testing.T) {
	p := ProjectOnTo(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{2, 0, 0})
	if !Vec3ApproxEq(p, mgl64.Vec3{3, 0, 0}, 1e-9) {
		t.Fatalf("unexpected projection %v", p)
	}
	if p := ProjectOnTo(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}); p != (mgl64.Vec3{}) {
		t.Fatalf("projection onto zero vector should be zero, got %v", p)
	}
}

func TestAngleDeg(t *testing.T) {
	approxEqual(t, AngleDeg(mgl64.Vec3{1, 0, 0}, WorldUp), 90, 1e-9, "wall angle")
	approxEqual(t, AngleDeg(WorldUp, WorldUp), 0, 1e-6, "floor angle")
	n := mgl64.Vec3{math.Sin(mgl64.DegToRad(60)), 0, math.Cos(mgl64.DegToRad(60))}
	approxEqual(t, AngleDeg(n, WorldUp), 60, 1e-9, "slope angle")
}

func TestRotationFromXAxes(t *testing.T) {
	q := RotationFromX(mgl64.Vec3{0, 1, 0})
	if !Vec3ApproxEq(Forward(q), mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Fatalf("forward = %v", Forward(q))
	}
	if !Vec3ApproxEq(Up(q), WorldUp, 1e-9) {
		t.Fatalf("up = %v", Up(q))
	}
	if !Vec3ApproxEq(Right(q), mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Fatalf("right = %v", Right(q))
	}
}

func TestRotationFromXStraightUp(t *testing.T) {
	q := RotationFromX(WorldUp)
	if !Vec3ApproxEq(Forward(q), WorldUp, 1e-9) {
		t.Fatalf("forward = %v", Forward(q))
	}
}

func TestUnrotateVector(t *testing.T) {
	q := YawRotation(90)
	local := UnrotateVector(q, mgl64.Vec3{0, 1, 0})
	if !Vec3ApproxEq(local, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("unexpected local vector %v", local)
	}
}

func TestUprightRotationDropsPitch(t *testing.T) {
	tilted := RotationFromX(mgl64.Vec3{1, 0, 1})
	up := UprightRotation(tilted)
	if !Vec3ApproxEq(Forward(up), mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("forward = %v", Forward(up))
	}
}

func TestQuatInterpToReachesTarget(t *testing.T) {
	from, to := mgl64.QuatIdent(), YawRotation(90)
	if got := QuatInterpTo(from, to, 1, 0); got != to {
		t.Fatalf("non-positive speed should snap to target")
	}
	half := QuatInterpTo(from, to, 0.1, 5)
	approxEqual(t, AngleDeg(Forward(half), mgl64.Vec3{1, 0, 0}), 45, 1e-6, "half step")
}

func TestClosestPointAndPenetration(t *testing.T) {
	bb := df_cube.Box(0, 0, 0, 1, 1, 1)
	p := ClosestPoint(bb, mgl64.Vec3{2, 0.5, -1})
	if p != (mgl64.Vec3{1, 0.5, 0}) {
		t.Fatalf("closest point = %v", p)
	}

	n, depth := PenetrationNormal(bb, mgl64.Vec3{0.9, 0.5, 0.5})
	if n != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("penetration normal = %v", n)
	}
	approxEqual(t, depth, 0.1, 1e-9, "depth")
}

func TestFaceNormal(t *testing.T) {
	if n := FaceNormal(df_cube.FaceWest); n != (mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("west normal = %v", n)
	}
	if n := FaceNormal(df_cube.FaceUp); n != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("up face normal = %v", n)
	}
}

func TestBoxConversionRoundTrip(t *testing.T) {
	bb := df_cube.Box(-1, 2, 3, 4, 5, 6)
	back := CubeBoxToDFBox(DFBoxToCubeBox(bb))
	if back.Min() != bb.Min() || back.Max() != bb.Max() {
		t.Fatalf("round trip changed box: %v -> %v", bb, back)
	}
}
