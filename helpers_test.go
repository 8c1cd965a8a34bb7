package ornatree

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func nearVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func nearQuat(a, b mgl32.Quat, eps float32) bool {
	return math32.Abs(a.W-b.W) <= eps && nearVec3(a.V, b.V, eps)
}
