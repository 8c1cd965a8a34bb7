package ornatree

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func quietNoise() NoiseConfig {
	n := DefaultNoiseConfig()
	n.Enabled = false
	return n
}

func testLayout(t *testing.T, count int) *ParticleLayout {
	t.Helper()
	cfg := DefaultParticleLayoutConfig()
	cfg.Count = count
	l := GenerateParticles(cfg, testRNG(99))
	require.Equal(t, count, l.Len())
	return l
}

func TestInstanceUpdaterEndpointsExact(t *testing.T) {
	l := testLayout(t, 500)
	u := NewInstanceTransformUpdater(l, 3, quietNoise(), 1)

	u.Apply(0, 12.5)
	buf := u.Buffer()
	for i := 0; i < l.Len(); i++ {
		tr := buf.At(i)
		assert.Equal(t, l.ScatterPos[i], tr.Position, "particle %d", i)
		assert.Equal(t, l.ScatterRot[i], tr.Rotation, "particle %d", i)
		assert.Equal(t, l.Scale[i], tr.Scale, "particle %d", i)
	}

	// Fully assembled: the drift has faded out even with noise enabled.
	u = NewInstanceTransformUpdater(l, 3, DefaultNoiseConfig(), 1)
	u.Apply(1, 12.5)
	buf = u.Buffer()
	for i := 0; i < l.Len(); i++ {
		tr := buf.At(i)
		assert.Equal(t, l.TreePos[i], tr.Position, "particle %d", i)
		assert.Equal(t, l.TreeRot[i], tr.Rotation, "particle %d", i)
	}
}

func TestInstanceUpdaterSingleParticleMidpoint(t *testing.T) {
	l := &ParticleLayout{
		TreePos:    []mgl32.Vec3{{0, 1, 0}},
		ScatterPos: []mgl32.Vec3{{1, 0, 0}},
		TreeRot:    []mgl32.Quat{mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})},
		ScatterRot: []mgl32.Quat{mgl32.QuatIdent()},
		Scale:      []mgl32.Vec3{{0.07, 0.4, 0.08}},
	}
	u := NewInstanceTransformUpdater(l, 3, quietNoise(), 1)
	u.Apply(0.5, 0)

	tr := u.Buffer().At(0)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, tr.Position)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	assert.True(t, nearQuat(tr.Rotation, want, 1e-5), "rotation %v", tr.Rotation)
	assert.Equal(t, mgl32.Vec3{0.07, 0.4, 0.08}, tr.Scale)
}

func TestInstanceUpdaterDrift(t *testing.T) {
	l := &ParticleLayout{
		TreePos:    []mgl32.Vec3{{0, 1, 0}},
		ScatterPos: []mgl32.Vec3{{1, 0, 0}},
		TreeRot:    []mgl32.Quat{mgl32.QuatIdent()},
		ScatterRot: []mgl32.Quat{mgl32.QuatIdent()},
		Scale:      []mgl32.Vec3{{0.1, 0.5, 0.1}},
	}
	noise := DefaultNoiseConfig()
	u := NewInstanceTransformUpdater(l, 3, noise, 1)

	const m, tm = float32(0.2), float32(3)
	u.Apply(m, tm)
	got := u.Buffer().At(0).Position

	amp := (1 - m) * noise.Amplitude
	phase := tm * noise.Frequency
	want := mgl32.Vec3{
		0.8 + math32.Cos(phase+0)*amp*noise.HorizontalRatio,
		0.2 + math32.Sin(phase+1)*amp,
		0,
	}
	assert.True(t, nearVec3(got, want, 1e-5), "got %v want %v", got, want)

	// Past the threshold the drift switches off.
	u.Apply(0.96, tm)
	assert.True(t, nearVec3(u.Buffer().At(0).Position, mgl32.Vec3{0.04, 0.96, 0}, 1e-6))
}

func TestInstanceUpdaterUpdateAdvancesMorph(t *testing.T) {
	l := testLayout(t, 300)
	u := NewInstanceTransformUpdater(l, 3, quietNoise(), 1)
	u.Morph().Reset(0)
	u.SetTarget(1)

	for i := 0; i < 120; i++ {
		u.Update(1.0 / 60)
	}
	assert.Greater(t, u.Morph().Factor(), float32(0.99))
	assert.InDelta(t, 2.0, u.Elapsed(), 1e-4)
	assert.Equal(t, uint64(120), u.Buffer().Version())
	assert.True(t, u.Buffer().Ready())
}

func TestInstanceUpdaterSequentialDoesNotAllocate(t *testing.T) {
	l := testLayout(t, 1800)
	u := NewInstanceTransformUpdater(l, 3, DefaultNoiseConfig(), 1)
	u.SetTarget(0)

	allocs := testing.AllocsPerRun(50, func() {
		u.Update(1.0 / 60)
	})
	assert.Zero(t, allocs)
}

func TestInstanceUpdaterApplyClampsWithoutAllocating(t *testing.T) {
	l := testLayout(t, 1800)
	u := NewInstanceTransformUpdater(l, 3, DefaultNoiseConfig(), 1)

	allocs := testing.AllocsPerRun(50, func() {
		u.Apply(1.5, 2)
		u.Apply(-0.5, 2)
	})
	assert.Zero(t, allocs)

	u.Apply(1.5, 2)
	assert.Equal(t, l.TreePos[7], u.Buffer().At(7).Position, "factor above one clamps to the assembled pose")
}

func TestInstanceUpdaterParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := testLayout(t, 1800)
	seq := NewInstanceTransformUpdater(l, 3, DefaultNoiseConfig(), 1)
	par := NewInstanceTransformUpdater(l, 3, DefaultNoiseConfig(), 4)
	require.Equal(t, 1, seq.Workers())
	require.Equal(t, 4, par.Workers())

	for _, m := range []float32{0, 0.3, 0.7, 1} {
		seq.Apply(m, 1.5)
		par.Apply(m, 1.5)
		assert.Equal(t, seq.Buffer().Transforms(), par.Buffer().Transforms(), "factor %v", m)
	}
}

func TestPartition(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 100}}, partition(100, 8), "too few particles to split")
	assert.Equal(t, [][2]int{{0, 0}}, partition(0, 4))

	chunks := partition(1801, 4)
	require.Len(t, chunks, 4)
	lo := 0
	for _, c := range chunks {
		assert.Equal(t, lo, c[0])
		assert.Greater(t, c[1], c[0])
		lo = c[1]
	}
	assert.Equal(t, 1801, lo)
}

func TestTransformBufferMatrices(t *testing.T) {
	l := testLayout(t, 10)
	u := NewInstanceTransformUpdater(l, 3, quietNoise(), 1)
	u.Apply(1, 0)

	mats := u.Buffer().Matrices(nil)
	require.Len(t, mats, 10)
	for i, mat := range mats {
		origin := mat.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		assert.True(t, nearVec3(origin, l.TreePos[i], 1e-5))
	}

	reused := u.Buffer().Matrices(mats)
	assert.Same(t, &mats[0], &reused[0], "a large enough slice is reused")
}
