package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// slerpLinearThreshold is the cosine above which Slerp falls back to a
// normalized lerp; the sine of the angle is too small to divide by.
const slerpLinearThreshold = 0.9995

func Lerp(a, b, t float32) float32 { return a*(1-t) + b*t }

// LerpVec3 interpolates from a (t=0) to b (t=1). Both endpoints are
// reproduced bit-exactly.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	s := 1 - t
	return mgl32.Vec3{
		a[0]*s + b[0]*t,
		a[1]*s + b[1]*t,
		a[2]*s + b[2]*t,
	}
}

// Slerp spherically interpolates along the shortest arc between two unit
// quaternions. t<=0 returns a and t>=1 returns b unchanged.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	cosHalf := a.Dot(b)
	if cosHalf < 0 {
		b = b.Scale(-1)
		cosHalf = -cosHalf
	}

	if cosHalf > slerpLinearThreshold {
		return mgl32.Quat{
			W: Lerp(a.W, b.W, t),
			V: LerpVec3(a.V, b.V, t),
		}.Normalize()
	}

	theta := math32.Acos(mgl32.Clamp(cosHalf, -1, 1))
	sinTheta := math32.Sin(theta)
	wa := math32.Sin((1-t)*theta) / sinTheta
	wb := math32.Sin(t*theta) / sinTheta

	return a.Scale(wa).Add(b.Scale(wb))
}

// LookRotation returns the rotation that turns the local +Z axis toward
// target as seen from eye, keeping +Y as close to up as possible.
// A direction parallel to up falls back to the +X axis as the right vector.
func LookRotation(eye, target, up mgl32.Vec3) mgl32.Quat {
	forward := target.Sub(eye)
	if forward.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	forward = forward.Normalize()

	right := up.Cross(forward)
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	} else {
		right = right.Normalize()
	}
	newUp := forward.Cross(right)

	basis := mgl32.Mat3FromCols(right, newUp, forward)
	return mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
}

// EulerToQuat converts intrinsic XYZ Euler angles (radians) to a quaternion.
func EulerToQuat(x, y, z float32) mgl32.Quat {
	return mgl32.AnglesToQuat(x, y, z, mgl32.XYZ).Normalize()
}
