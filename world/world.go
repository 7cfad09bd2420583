package world

import (
	"io"
	"log/slog"
	"slices"

	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
	"github.com/sasha-s/go-deadlock"
)

// grazingTolerance is how close to the rim of a face a box sweep may hit and still slide past it.
const grazingTolerance = 1e-4

var _ Querier = (*Level)(nil)

// Level is a static collection of box colliders that characters are simulated against. It is safe for
// concurrent use: queries take a read lock so characters ticked in parallel can share one level.
type Level struct {
	nextID  ObjectID
	objects []Object

	logger *slog.Logger

	deadlock.RWMutex
}

// New returns an empty level. A nil logger discards all output.
func New(logger *slog.Logger) *Level {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Level{logger: logger}
}

// AddObject adds a collider to the level and returns its ID.
func (l *Level) AddObject(name string, t ObjectType, bb df_cube.BBox) ObjectID {
	l.Lock()
	defer l.Unlock()

	l.nextID++
	l.objects = append(l.objects, Object{
		ID:   l.nextID,
		Name: name,
		Type: t,
		Box:  game.DFBoxToCubeBox(bb),
	})
	l.logger.Debug("added level object", "id", l.nextID, "name", name, "type", t)
	return l.nextID
}

// RemoveObject removes the collider with the given ID. It returns false if no such object exists.
func (l *Level) RemoveObject(id ObjectID) bool {
	l.Lock()
	defer l.Unlock()

	idx := slices.IndexFunc(l.objects, func(o Object) bool { return o.ID == id })
	if idx < 0 {
		return false
	}
	l.objects = slices.Delete(l.objects, idx, idx+1)
	l.logger.Debug("removed level object", "id", id)
	return true
}

// Object returns the object with the given ID.
func (l *Level) Object(id ObjectID) (Object, bool) {
	l.RLock()
	defer l.RUnlock()

	for _, o := range l.objects {
		if o.ID == id {
			return o, true
		}
	}
	return Object{}, false
}

// Objects returns a copy of every object in the level.
func (l *Level) Objects() []Object {
	l.RLock()
	defer l.RUnlock()
	return slices.Clone(l.objects)
}

// SweepBox sweeps a box with the given half extents from start to end and returns at most one hit per
// object matching the filter, ordered by time of impact.
func (l *Level) SweepBox(start, end, halfExtents mgl64.Vec3, filter ObjectType) []Hit {
	l.RLock()
	defer l.RUnlock()

	bounds := sweepBounds(start, end, halfExtents)
	var hits []Hit
	for _, o := range l.objects {
		if !o.Type.Matches(filter) || !bounds.IntersectsWith(o.Box) {
			continue
		}
		if hit, ok := sweepObject(o, start, end, halfExtents); ok {
			hits = append(hits, hit)
		}
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return hits
}

// Ray traces a line from start to end and returns the nearest hit against objects matching the filter.
func (l *Level) Ray(start, end mgl64.Vec3, filter ObjectType) (Hit, bool) {
	l.RLock()
	defer l.RUnlock()

	bounds := sweepBounds(start, end, mgl64.Vec3{})
	var (
		nearest Hit
		found   bool
	)
	for _, o := range l.objects {
		if !o.Type.Matches(filter) || !bounds.IntersectsWith(o.Box) {
			continue
		}
		hit, ok := sweepObject(o, start, end, mgl64.Vec3{})
		if ok && (!found || hit.Time < nearest.Time) {
			nearest, found = hit, true
		}
	}
	return nearest, found
}

// sweepObject traces the centre of a box with the given half extents against the object's collider grown
// by those extents, which is equivalent to sweeping the box itself.
func sweepObject(o Object, start, end, halfExtents mgl64.Vec3) (Hit, bool) {
	bb := o.BBox()
	grown := bb.GrowVec3(halfExtents)
	if inside(grown, start) {
		normal, depth := game.PenetrationNormal(grown, start)
		return Hit{
			Object:           o.ID,
			Point:            game.ClosestPoint(bb, start),
			Normal:           normal,
			Location:         start,
			StartPenetrating: true,
			Depth:            depth,
		}, true
	}

	length := end.Sub(start).Len()
	if length <= 0 {
		return Hit{}, false
	}
	res, ok := trace.BBoxIntercept(grown, start, end)
	if !ok {
		return Hit{}, false
	}
	pos, normal := res.Position(), game.FaceNormal(res.Face())
	if end.Sub(start).Dot(normal) >= 0 {
		// Touching a face while moving away from or along it.
		return Hit{}, false
	}
	if halfExtents != (mgl64.Vec3{}) && grazing(grown, pos, normal) {
		return Hit{}, false
	}
	// Put the impact exactly on the face plane.
	for i := range 3 {
		switch {
		case normal[i] > 0:
			pos[i] = grown.Max()[i]
		case normal[i] < 0:
			pos[i] = grown.Min()[i]
		}
	}
	return Hit{
		Object:   o.ID,
		Point:    game.ClosestPoint(bb, pos),
		Normal:   normal,
		Location: pos,
		Time:     game.ClampFloat(pos.Sub(start).Len()/length, 0, 1),
	}, true
}

// grazing returns true if pos lies on the rim of the face it hit, where a box sliding along the
// neighbouring face would otherwise catch on rounding.
func grazing(bb df_cube.BBox, pos, normal mgl64.Vec3) bool {
	min, max := bb.Min(), bb.Max()
	for i := range 3 {
		if normal[i] != 0 {
			continue
		}
		if pos[i]-min[i] <= grazingTolerance || max[i]-pos[i] <= grazingTolerance {
			return true
		}
	}
	return false
}

func inside(bb df_cube.BBox, v mgl64.Vec3) bool {
	min, max := bb.Min(), bb.Max()
	return v[0] > min[0] && v[0] < max[0] &&
		v[1] > min[1] && v[1] < max[1] &&
		v[2] > min[2] && v[2] < max[2]
}

// sweepBounds returns the single precision box covering the whole sweep, used to skip objects that the
// trace can never reach. It is padded by one unit so rounding never culls a touching object.
func sweepBounds(start, end, halfExtents mgl64.Vec3) cube.BBox {
	s, e, h := game.Vec64To32(start), game.Vec64To32(end), game.Vec64To32(halfExtents)
	return cube.Box(
		math32.Min(s[0], e[0])-h[0]-1, math32.Min(s[1], e[1])-h[1]-1, math32.Min(s[2], e[2])-h[2]-1,
		math32.Max(s[0], e[0])+h[0]+1, math32.Max(s[1], e[1])+h[1]+1, math32.Max(s[2], e[2])+h[2]+1,
	)
}
