package probe

import (
	"fmt"
	"strings"
	"testing"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/world"
)

type mockWorld struct {
	sweeps []world.Hit
	ray    *world.Hit

	lastHalfExtents mgl64.Vec3
	lastFilter      world.ObjectType
}

func (m *mockWorld) SweepBox(start, end, halfExtents mgl64.Vec3, filter world.ObjectType) []world.Hit {
	m.lastHalfExtents, m.lastFilter = halfExtents, filter
	return m.sweeps
}

func (m *mockWorld) Ray(start, end mgl64.Vec3, filter world.ObjectType) (world.Hit, bool) {
	m.lastFilter = filter
	if m.ray == nil {
		return world.Hit{}, false
	}
	return *m.ray, true
}

func TestShapeUsesCapsuleExtentsAndFilter(t *testing.T) {
	w := &mockWorld{sweeps: []world.Hit{{Object: 3, Point: mgl64.Vec3{1, 2, 3}, Normal: mgl64.Vec3{-1, 0, 0}}}}
	p := &Prober{World: w, Filter: world.ObjectWorldStatic, Radius: 50, HalfHeight: 72}

	start, end := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}
	hits := p.Shape(start, end, DebugNone)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if w.lastHalfExtents != (mgl64.Vec3{50, 50, 72}) {
		t.Fatalf("unexpected extents %v", w.lastHalfExtents)
	}
	if w.lastFilter != world.ObjectWorldStatic {
		t.Fatalf("filter not forwarded")
	}
	h := hits[0]
	if !h.Blocking || h.ImpactPoint != (mgl64.Vec3{1, 2, 3}) || h.TraceStart != start || h.TraceEnd != end || h.Object != 3 {
		t.Fatalf("unexpected hit %+v", h)
	}
}

func TestRayMissFillsTraceEnds(t *testing.T) {
	p := &Prober{World: &mockWorld{}}
	start, end := mgl64.Vec3{0, 0, 64}, mgl64.Vec3{100, 0, 64}
	h := p.Ray(start, end, DebugNone)
	if h.Blocking {
		t.Fatalf("expected a non-blocking hit")
	}
	if h.TraceStart != start || h.TraceEnd != end {
		t.Fatalf("trace ends not filled: %+v", h)
	}
}

func TestNilWorldIsAMiss(t *testing.T) {
	var p Prober
	if hits := p.Shape(mgl64.Vec3{}, mgl64.Vec3{1}, DebugNone); hits != nil {
		t.Fatalf("expected no hits")
	}
	if p.Ray(mgl64.Vec3{}, mgl64.Vec3{1}, DebugNone).Blocking {
		t.Fatalf("expected a miss")
	}
}

func TestDebugHook(t *testing.T) {
	var lines []string
	p := &Prober{
		World:  &mockWorld{},
		Debugf: func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) },
	}
	p.Ray(mgl64.Vec3{}, mgl64.Vec3{1}, DebugNone)
	p.Ray(mgl64.Vec3{}, mgl64.Vec3{1}, DebugPersistent)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one debug line, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[persistent]") {
		t.Fatalf("unexpected debug line %q", lines[0])
	}
}

func TestProberAgainstLevel(t *testing.T) {
	l := world.New(nil)
	l.AddObject("wall", world.ObjectWorldStatic, df_cube.Box(100, -500, 0, 150, 500, 1000))
	p := &Prober{World: l, Filter: world.ObjectWorldStatic, Radius: 50, HalfHeight: 72}

	hits := p.Shape(mgl64.Vec3{60, 0, 96}, mgl64.Vec3{61, 0, 96}, DebugNone)
	if len(hits) != 1 {
		t.Fatalf("expected the capsule to overlap the wall, got %d hits", len(hits))
	}
	if hits[0].ImpactNormal != (mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("unexpected normal %v", hits[0].ImpactNormal)
	}

	ray := p.Ray(mgl64.Vec3{0, 0, 160}, mgl64.Vec3{100, 0, 160}, DebugNone)
	if !ray.Blocking || ray.ImpactPoint != (mgl64.Vec3{100, 0, 160}) {
		t.Fatalf("unexpected ray hit %+v", ray)
	}
}
