package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// wallLevel returns a level with a floor at z=0 and a wall whose near face sits at x=100.
func wallLevel() *Level {
	l := New(nil)
	l.AddObject("floor", ObjectWorldStatic, df_cube.Box(-1000, -1000, -50, 1000, 1000, 0))
	l.AddObject("wall", ObjectWorldStatic, df_cube.Box(100, -500, 0, 150, 500, 1000))
	l.AddObject("crate", ObjectWorldDynamic, df_cube.Box(-300, -300, 0, -200, -200, 100))
	return l
}

func vecNear(a, b mgl64.Vec3) bool {
	for i := range 3 {
		if math.Abs(a[i]-b[i]) > 1e-6 {
			return false
		}
	}
	return true
}

func TestRayHitsNearestFace(t *testing.T) {
	l := wallLevel()
	hit, ok := l.Ray(mgl64.Vec3{0, 0, 160}, mgl64.Vec3{200, 0, 160}, ObjectWorldStatic)
	if !ok {
		t.Fatalf("expected ray to hit the wall")
	}
	if !vecNear(hit.Point, mgl64.Vec3{100, 0, 160}) {
		t.Fatalf("unexpected impact point %v", hit.Point)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("unexpected normal %v", hit.Normal)
	}
	if math.Abs(hit.Time-0.5) > 1e-9 {
		t.Fatalf("unexpected time %v", hit.Time)
	}
}

func TestRayRespectsFilter(t *testing.T) {
	l := wallLevel()
	if _, ok := l.Ray(mgl64.Vec3{0, 0, 160}, mgl64.Vec3{200, 0, 160}, ObjectWorldDynamic); ok {
		t.Fatalf("dynamic filter must not hit a static wall")
	}
	if _, ok := l.Ray(mgl64.Vec3{-250, -250, 200}, mgl64.Vec3{-250, -250, 50}, ObjectWorldDynamic); !ok {
		t.Fatalf("dynamic filter should hit the crate")
	}
}

func TestRayMissIsNotAnError(t *testing.T) {
	l := wallLevel()
	if _, ok := l.Ray(mgl64.Vec3{0, 0, 160}, mgl64.Vec3{-50, 0, 160}, ObjectAll); ok {
		t.Fatalf("expected a miss")
	}
}

func TestSweepBoxReportsOneHitPerObject(t *testing.T) {
	l := wallLevel()
	// Box tall enough to overlap the floor, sweeping into the wall.
	hits := l.SweepBox(mgl64.Vec3{20, 0, 40}, mgl64.Vec3{80, 0, 40}, mgl64.Vec3{30, 30, 50}, ObjectWorldStatic)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %+v", len(hits), hits)
	}
	if !hits[0].StartPenetrating || hits[0].Time != 0 {
		t.Fatalf("floor hit should start penetrating: %+v", hits[0])
	}
	if !vecNear(hits[0].Normal, mgl64.Vec3{0, 0, 1}) || math.Abs(hits[0].Depth-10) > 1e-9 {
		t.Fatalf("floor hit should push up by 10: %+v", hits[0])
	}
	wall := hits[1]
	if !vecNear(wall.Normal, mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("unexpected wall normal %v", wall.Normal)
	}
	if !vecNear(wall.Location, mgl64.Vec3{70, 0, 40}) {
		t.Fatalf("unexpected sweep location %v", wall.Location)
	}
	if !vecNear(wall.Point, mgl64.Vec3{100, 0, 40}) {
		t.Fatalf("unexpected impact point %v", wall.Point)
	}
}

func TestSweepAwayFromTouchingFaceDoesNotHit(t *testing.T) {
	l := wallLevel()
	hits := l.SweepBox(mgl64.Vec3{0, 0, 50}, mgl64.Vec3{0, 0, 80}, mgl64.Vec3{10, 10, 50}, ObjectWorldStatic)
	if len(hits) != 0 {
		t.Fatalf("moving up off the floor should not hit it: %+v", hits)
	}
}

func TestSweepAlongTopRimDoesNotCatch(t *testing.T) {
	l := wallLevel()
	half := mgl64.Vec3{10, 10, 10}
	// The bottom of the box sits a rounding error below the top of the crate.
	start, end := mgl64.Vec3{-320, -250, 110 - 1e-5}, mgl64.Vec3{-180, -250, 110 - 1e-5}
	if hits := l.SweepBox(start, end, half, ObjectWorldDynamic); len(hits) != 0 {
		t.Fatalf("sliding onto the crate should not hit its side: %+v", hits)
	}

	start[2], end[2] = 105, 105
	hits := l.SweepBox(start, end, half, ObjectWorldDynamic)
	if len(hits) != 1 || hits[0].Normal != (mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("expected the crate side to block a lower box, got %+v", hits)
	}
}

func TestRemoveObject(t *testing.T) {
	l := New(nil)
	id := l.AddObject("wall", ObjectWorldStatic, df_cube.Box(100, -500, 0, 150, 500, 1000))
	if !l.RemoveObject(id) {
		t.Fatalf("expected object to be removed")
	}
	if l.RemoveObject(id) {
		t.Fatalf("object removed twice")
	}
	if _, ok := l.Object(id); ok {
		t.Fatalf("object still present")
	}
}

func TestParseObjectTypes(t *testing.T) {
	ty, err := ParseObjectTypes([]string{"world_static", " Pawn "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != ObjectWorldStatic|ObjectPawn {
		t.Fatalf("unexpected type %b", ty)
	}
	if _, err := ParseObjectTypes([]string{"water"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestLoadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	data := []byte(`objects:
  - name: floor
    min: [-1000, -1000, -50]
    max: [1000, 1000, 0]
  - name: wall
    types: [world_static, world_dynamic]
    min: [100, -500, 0]
    max: [150, 500, 1000]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadLevel(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	objs := l.Objects()
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if objs[1].Type != ObjectWorldStatic|ObjectWorldDynamic {
		t.Fatalf("unexpected wall type %b", objs[1].Type)
	}
}

func TestLoadLevelRejectsEmptyBox(t *testing.T) {
	_, err := LevelFile{Objects: []ObjectSpec{{Name: "flat", Min: [3]float64{0, 0, 0}, Max: [3]float64{1, 1, 0}}}}.Build(nil)
	if err == nil {
		t.Fatalf("expected an error for a zero height box")
	}
}
