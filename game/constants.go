package game

import "github.com/go-gl/mathgl/mgl64"

const (
	// MinTickTime is the smallest step the simulation will integrate. Anything below it is skipped.
	MinTickTime = 1e-6
	// SmallNumber is the squared length under which a vector is considered degenerate.
	SmallNumber = 1e-8
	// ParallelThreshold is the cosine above which two normals count as parallel.
	ParallelThreshold = 0.999845
)

// WorldUp is the up axis of the simulation. X is forward and Y is right for an unrotated character.
var WorldUp = mgl64.Vec3{0, 0, 1}
