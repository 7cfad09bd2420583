package game

import (
	"math"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// DFBoxToCubeBox converts a dragonfly bounding box to a float32-cube bounding box.
func DFBoxToCubeBox(b df_cube.BBox) cube.BBox {
	return cube.Box(
		float32(b.Min().X()), float32(b.Min().Y()), float32(b.Min().Z()),
		float32(b.Max().X()), float32(b.Max().Y()), float32(b.Max().Z()),
	)
}

// CubeBoxToDFBox converts a float32-cube bounding box to a dragonfly bounding box.
func CubeBoxToDFBox(b cube.BBox) df_cube.BBox {
	return df_cube.Box(
		float64(b.Min().X()), float64(b.Min().Y()), float64(b.Min().Z()),
		float64(b.Max().X()), float64(b.Max().Y()), float64(b.Max().Z()),
	)
}

// BoxAround returns a box centered on the position with the given half extents.
func BoxAround(center, halfExtents mgl64.Vec3) df_cube.BBox {
	return df_cube.Box(
		center[0]-halfExtents[0], center[1]-halfExtents[1], center[2]-halfExtents[2],
		center[0]+halfExtents[0], center[1]+halfExtents[1], center[2]+halfExtents[2],
	)
}

// ClosestPoint returns the point inside the box closest to v.
func ClosestPoint(bb df_cube.BBox, v mgl64.Vec3) mgl64.Vec3 {
	min, max := bb.Min(), bb.Max()
	return mgl64.Vec3{
		ClampFloat(v[0], min[0], max[0]),
		ClampFloat(v[1], min[1], max[1]),
		ClampFloat(v[2], min[2], max[2]),
	}
}

// FaceNormal returns the outward unit normal of the box face passed.
func FaceNormal(face df_cube.Face) mgl64.Vec3 {
	return df_cube.Pos{}.Side(face).Vec3()
}

// PenetrationNormal returns the outward normal of the face of bb that v is closest to leaving through,
// along with the depth v sits below that face. It is used for sweeps that start inside a box.
func PenetrationNormal(bb df_cube.BBox, v mgl64.Vec3) (mgl64.Vec3, float64) {
	min, max := bb.Min(), bb.Max()
	best, bestDepth := mgl64.Vec3{}, math.MaxFloat64
	for i := range 3 {
		if d := v[i] - min[i]; d < bestDepth {
			bestDepth = d
			best = mgl64.Vec3{}
			best[i] = -1
		}
		if d := max[i] - v[i]; d < bestDepth {
			bestDepth = d
			best = mgl64.Vec3{}
			best[i] = 1
		}
	}
	return best, bestDepth
}
