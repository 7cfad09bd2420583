package surface

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/probe"
)

// Contact is the aggregated climbable surface the character is currently attached to.
type Contact struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3
}

// Valid returns true if the contact was built from at least one hit with a usable normal.
func (c Contact) Valid() bool {
	return c.Normal != (mgl64.Vec3{})
}

// Aggregate collapses the hits of one probe into a single contact: the mean impact point and the
// normalized sum of the impact normals. No hits yield the zero contact. Normals that cancel each other
// out yield a zero normal rather than NaN.
func Aggregate(hits []probe.Hit) Contact {
	if len(hits) == 0 {
		return Contact{}
	}

	var loc, normal mgl64.Vec3
	for _, h := range hits {
		loc = loc.Add(h.ImpactPoint)
		normal = normal.Add(h.ImpactNormal)
	}
	return Contact{
		Location: loc.Mul(1 / float64(len(hits))),
		Normal:   game.SafeNormal(normal),
	}
}
