package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the position/rotation/scale triple written for every
// morphing entity. Renderers read it; only the owning updater writes it.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the object-to-world matrix T*R*S. The rotation columns
// are scaled in place instead of multiplying three 4x4 matrices.
func (t Transform) Matrix() mgl32.Mat4 {
	m := t.Rotation.Mat4()
	for c := 0; c < 3; c++ {
		m.SetCol(c, m.Col(c).Mul(t.Scale[c]))
	}
	m.SetCol(3, t.Position.Vec4(1))
	return m
}

// Apply maps a point from object space to world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	return t.Rotation.Rotate(scaled).Add(t.Position)
}
