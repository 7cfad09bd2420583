package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/world"
)

// Hit is a single probe result. It is produced and consumed within one simulation step.
type Hit struct {
	ImpactPoint  mgl64.Vec3
	ImpactNormal mgl64.Vec3
	Blocking     bool

	TraceStart mgl64.Vec3
	TraceEnd   mgl64.Vec3

	// Location is the centre of the probe shape at the time of impact.
	Location         mgl64.Vec3
	Time             float64
	StartPenetrating bool
	Object           world.ObjectID
}

// DebugMode controls whether a probe is reported to the debug hook and for how long a renderer should
// keep it around.
type DebugMode uint8

const (
	DebugNone DebugMode = iota
	DebugOneFrame
	DebugPersistent
)

func (m DebugMode) String() string {
	switch m {
	case DebugOneFrame:
		return "frame"
	case DebugPersistent:
		return "persistent"
	}
	return "none"
}

// Prober issues climbable surface queries against the world. The zero value issues no queries and
// reports every probe as a miss.
type Prober struct {
	World world.Querier
	// Filter selects the object types that count as climbable surfaces.
	Filter world.ObjectType

	// Radius and HalfHeight describe the capsule used by Shape.
	Radius     float64
	HalfHeight float64

	// Debugf receives one line per probe issued with a debug mode other than DebugNone.
	Debugf func(format string, args ...any)
}

// Shape sweeps the probe capsule from start to end and returns every blocking hit against the climbable
// filter, one per object. The capsule is approximated by its bounding box.
func (p *Prober) Shape(start, end mgl64.Vec3, debug DebugMode) []Hit {
	return p.ShapeSized(start, end, p.Radius, p.HalfHeight, debug)
}

// ShapeSized is Shape with an explicit capsule size.
func (p *Prober) ShapeSized(start, end mgl64.Vec3, radius, halfHeight float64, debug DebugMode) []Hit {
	if p == nil || p.World == nil {
		return nil
	}
	raw := p.World.SweepBox(start, end, mgl64.Vec3{radius, radius, halfHeight}, p.Filter)
	hits := make([]Hit, 0, len(raw))
	for _, h := range raw {
		hits = append(hits, fromWorldHit(h, start, end))
	}
	p.debugf(debug, "capsule probe start=%v end=%v radius=%.1f halfHeight=%.1f hits=%d", start, end, radius, halfHeight, len(hits))
	return hits
}

// Ray traces a line from start to end and returns the nearest blocking hit. On a miss the returned hit
// has Blocking set to false and the trace endpoints filled in.
func (p *Prober) Ray(start, end mgl64.Vec3, debug DebugMode) Hit {
	miss := Hit{TraceStart: start, TraceEnd: end, Time: 1}
	if p == nil || p.World == nil {
		return miss
	}
	h, ok := p.World.Ray(start, end, p.Filter)
	if !ok {
		p.debugf(debug, "ray probe start=%v end=%v miss", start, end)
		return miss
	}
	hit := fromWorldHit(h, start, end)
	p.debugf(debug, "ray probe start=%v end=%v hit=%v normal=%v", start, end, hit.ImpactPoint, hit.ImpactNormal)
	return hit
}

func (p *Prober) debugf(mode DebugMode, format string, args ...any) {
	if mode == DebugNone || p.Debugf == nil {
		return
	}
	p.Debugf("["+mode.String()+"] "+format, args...)
}

func fromWorldHit(h world.Hit, start, end mgl64.Vec3) Hit {
	return Hit{
		ImpactPoint:      h.Point,
		ImpactNormal:     h.Normal,
		Blocking:         true,
		TraceStart:       start,
		TraceEnd:         end,
		Location:         h.Location,
		Time:             h.Time,
		StartPenetrating: h.StartPenetrating,
		Object:           h.Object,
	}
}
