package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// SafeNormal returns the normalized vector, or a zero vector if the vector is too short to normalize
// without producing NaN components.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() < SmallNumber {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// ProjectOnTo projects v onto the direction of onto. A zero onto vector yields a zero result.
func ProjectOnTo(v, onto mgl64.Vec3) mgl64.Vec3 {
	lenSqr := onto.LenSqr()
	if lenSqr < SmallNumber {
		return mgl64.Vec3{}
	}
	return onto.Mul(v.Dot(onto) / lenSqr)
}

// Parallel returns true if the two normals point along the same line, in either direction.
func Parallel(a, b mgl64.Vec3, threshold float64) bool {
	return math.Abs(a.Dot(b)) >= threshold
}

// AngleDeg returns the angle between the two vectors in degrees. Zero vectors are treated as
// perpendicular to everything.
func AngleDeg(a, b mgl64.Vec3) float64 {
	dot := ClampFloat(SafeNormal(a).Dot(SafeNormal(b)), -1, 1)
	return mgl64.RadToDeg(math.Acos(dot))
}

// RotationFromX returns the rotation whose forward (X) axis points along x, keeping the up (Z) axis as
// close to world up as possible.
func RotationFromX(x mgl64.Vec3) mgl64.Quat {
	x = SafeNormal(x)
	if x == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	up := WorldUp
	if math.Abs(x.Z()) >= 1-1e-4 {
		up = mgl64.Vec3{1, 0, 0}
	}
	y := up.Cross(x).Normalize()
	z := x.Cross(y)

	return mgl64.Mat4ToQuat(mgl64.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}).Normalize()
}

// YawRotation returns a rotation of the given degrees around world up.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), WorldUp)
}

// UprightRotation strips pitch and roll from the rotation, keeping only its heading.
func UprightRotation(q mgl64.Quat) mgl64.Quat {
	fwd := Forward(q)
	fwd[2] = 0
	if fwd.LenSqr() < SmallNumber {
		return mgl64.QuatIdent()
	}
	return RotationFromX(fwd)
}

// QuatInterpTo moves current towards target at the given speed. A non-positive speed snaps directly to
// the target.
func QuatInterpTo(current, target mgl64.Quat, dt, speed float64) mgl64.Quat {
	if speed <= 0 {
		return target
	}
	if math.Abs(current.Dot(target)) >= 1-1e-9 {
		return target
	}
	return mgl64.QuatSlerp(current, target, ClampFloat(speed*dt, 0, 1)).Normalize()
}

// UnrotateVector transforms a world space vector into the local space of the rotation.
func UnrotateVector(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Conjugate().Rotate(v)
}

// Forward returns the X axis of the rotation.
func Forward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(mgl64.Vec3{1, 0, 0})
}

// Right returns the Y axis of the rotation.
func Right(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(mgl64.Vec3{0, 1, 0})
}

// Up returns the Z axis of the rotation.
func Up(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(mgl64.Vec3{0, 0, 1})
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// RoundVec64 will round a 64-bit vector to a given precision.
func RoundVec64(v mgl64.Vec3, p int) mgl64.Vec3 {
	return mgl64.Vec3{Round64(v.X(), p), Round64(v.Y(), p), Round64(v.Z(), p)}
}

// Vec32To64 converts a 32-bit vector to a 64-bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// Vec3ApproxEq determines whether two vectors are within the given tolerance on every axis.
func Vec3ApproxEq(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range 3 {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}
