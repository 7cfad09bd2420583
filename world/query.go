package world

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the raw result of a world query against one object.
type Hit struct {
	Object ObjectID
	// Point is the point on the object's surface that was touched.
	Point mgl64.Vec3
	// Normal is the outward surface normal at Point.
	Normal mgl64.Vec3
	// Location is where the centre of the swept shape (or the ray) was at the time of impact.
	Location mgl64.Vec3
	// Time is the fraction of the trace travelled before the impact, in [0, 1].
	Time float64
	// StartPenetrating is true if the shape already overlapped the object at the start of the trace.
	StartPenetrating bool
	// Depth is how far the shape has to move along Normal to stop overlapping the object. It is only set
	// for hits that start penetrating.
	Depth float64
}

// Querier answers shape and ray queries against world geometry. Implementations must be pure functions
// of their arguments and the geometry at the time of the call.
type Querier interface {
	// SweepBox sweeps a box with the given half extents from start to end and returns one hit for every
	// object of the filtered types that it touches, ordered by time of impact.
	SweepBox(start, end, halfExtents mgl64.Vec3, filter ObjectType) []Hit
	// Ray returns the nearest hit of a line trace from start to end.
	Ray(start, end mgl64.Vec3, filter ObjectType) (Hit, bool)
}
