package ornatree

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/gekko3d/ornatree/core"
	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// ParticleLayout holds both generated arrangements of the needle particles
// as index-aligned slices. Nothing writes to it after generation.
type ParticleLayout struct {
	TreePos    []mgl32.Vec3
	ScatterPos []mgl32.Vec3
	TreeRot    []mgl32.Quat
	ScatterRot []mgl32.Quat
	Scale      []mgl32.Vec3
}

func (l *ParticleLayout) Len() int { return len(l.TreePos) }

func randRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}

// SampleBall returns a point uniformly distributed over the volume of a
// ball. The cube root on the radius keeps the density flat; a linear
// radius would pile points up near the center.
func SampleBall(rng *rand.Rand, radius float32) mgl32.Vec3 {
	theta := rng.Float32() * 2 * math32.Pi
	phi := math32.Acos(rng.Float32()*2 - 1)
	r := math32.Cbrt(rng.Float32()) * radius

	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		r * sinPhi * math32.Cos(theta),
		r * sinPhi * math32.Sin(theta),
		r * math32.Cos(phi),
	}
}

// GenerateParticles builds the cone (assembled) and ball (scattered)
// arrangements for cfg.Count particles. A zero count yields an empty
// layout.
func GenerateParticles(cfg ParticleLayoutConfig, rng *rand.Rand) *ParticleLayout {
	n := cfg.Count
	if n <= 0 {
		return &ParticleLayout{}
	}

	l := &ParticleLayout{
		TreePos:    make([]mgl32.Vec3, n),
		ScatterPos: make([]mgl32.Vec3, n),
		TreeRot:    make([]mgl32.Quat, n),
		ScatterRot: make([]mgl32.Quat, n),
		Scale:      make([]mgl32.Vec3, n),
	}

	baseRadius := clampRadius(cfg.BaseRadius)
	scatterRadius := clampRadius(cfg.ScatterRadius)
	span := cfg.YMax - cfg.YMin

	for i := 0; i < n; i++ {
		// Cone: radius shrinks linearly toward the tip.
		y := randRange(rng, cfg.YMin, cfg.YMax)
		h := float32(0)
		if span > 0 {
			h = (y - cfg.YMin) / span
		}
		radius := baseRadius * (1 - h) * randRange(rng, cfg.RadiusJitter[0], cfg.RadiusJitter[1])
		angle := rng.Float32() * 2 * math32.Pi
		x := radius * math32.Cos(angle)
		z := radius * math32.Sin(angle)

		l.TreePos[i] = mgl32.Vec3{x, y, z}
		l.TreeRot[i] = core.LookRotation(
			mgl32.Vec3{0, y, 0},
			mgl32.Vec3{x, y + cfg.LookUpOffset, z},
			worldUp,
		)

		l.ScatterPos[i] = SampleBall(rng, scatterRadius)
		l.ScatterRot[i] = core.EulerToQuat(
			rng.Float32()*math32.Pi,
			rng.Float32()*math32.Pi,
			rng.Float32()*math32.Pi,
		)

		l.Scale[i] = mgl32.Vec3{
			randRange(rng, cfg.ScaleMin[0], cfg.ScaleMax[0]),
			randRange(rng, cfg.ScaleMin[1], cfg.ScaleMax[1]),
			randRange(rng, cfg.ScaleMin[2], cfg.ScaleMax[2]),
		}
	}
	return l
}
