package ornatree

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/ornatree/core"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// minParticlesPerWorker keeps goroutine overhead below the work it saves.
const minParticlesPerWorker = 256

// TransformBuffer is the dense per-particle transform array handed to the
// renderer. Slot i always belongs to particle i. Only the
// InstanceTransformUpdater writes it; Version increments once per
// completed pass, after every slot has been written.
type TransformBuffer struct {
	transforms []core.Transform
	version    uint64
}

func NewTransformBuffer(n int) *TransformBuffer {
	if n < 0 {
		n = 0
	}
	return &TransformBuffer{transforms: make([]core.Transform, n)}
}

func (b *TransformBuffer) Len() int                { return len(b.transforms) }
func (b *TransformBuffer) At(i int) core.Transform { return b.transforms[i] }
func (b *TransformBuffer) Version() uint64         { return b.version }
func (b *TransformBuffer) Ready() bool             { return b.version > 0 }

// Transforms exposes the backing slice. Callers must treat it as read-only.
func (b *TransformBuffer) Transforms() []core.Transform { return b.transforms }

// Matrices packs every slot as a T*R*S object-to-world matrix into dst,
// growing it only when its capacity is too small.
func (b *TransformBuffer) Matrices(dst []mgl32.Mat4) []mgl32.Mat4 {
	n := len(b.transforms)
	if cap(dst) < n {
		dst = make([]mgl32.Mat4, n)
	}
	dst = dst[:n]
	for i := range b.transforms {
		dst[i] = b.transforms[i].Matrix()
	}
	return dst
}

// InstanceTransformUpdater morphs every particle between its scattered and
// assembled pose once per frame and writes the result into its
// TransformBuffer. The sequential pass does not allocate.
type InstanceTransformUpdater struct {
	layout  *ParticleLayout
	buffer  *TransformBuffer
	morph   MorphState
	noise   NoiseConfig
	elapsed float32

	// Disjoint [lo,hi) index ranges, one per worker.
	chunks [][2]int
}

func NewInstanceTransformUpdater(layout *ParticleLayout, responsiveness float32, noise NoiseConfig, workers int) *InstanceTransformUpdater {
	n := layout.Len()
	return &InstanceTransformUpdater{
		layout: layout,
		buffer: NewTransformBuffer(n),
		morph:  NewMorphState(responsiveness),
		noise:  noise,
		chunks: partition(n, workers),
	}
}

// partition splits n indices into at most workers contiguous ranges of at
// least minParticlesPerWorker each.
func partition(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if limit := n / minParticlesPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		return [][2]int{{0, n}}
	}

	chunks := make([][2]int, workers)
	size, rem := n/workers, n%workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + size
		if w < rem {
			hi++
		}
		chunks[w] = [2]int{lo, hi}
		lo = hi
	}
	return chunks
}

func (u *InstanceTransformUpdater) Buffer() *TransformBuffer { return u.buffer }
func (u *InstanceTransformUpdater) Morph() *MorphState       { return &u.morph }
func (u *InstanceTransformUpdater) Elapsed() float32         { return u.elapsed }
func (u *InstanceTransformUpdater) Workers() int             { return len(u.chunks) }

func (u *InstanceTransformUpdater) SetTarget(target float32) { u.morph.SetTarget(target) }

// Update advances the group's morph factor and the noise clock by dt
// seconds, then rewrites the whole buffer.
func (u *InstanceTransformUpdater) Update(dt float32) {
	m := u.morph.Update(dt)
	if dt > 0 {
		u.elapsed += dt
	}
	u.Apply(m, u.elapsed)
}

// Apply writes every slot for morph factor m at noise time t without
// touching the MorphState.
func (u *InstanceTransformUpdater) Apply(m, t float32) {
	factor := clamp01(m)
	if len(u.chunks) == 1 {
		u.writeRange(0, u.layout.Len(), factor, t)
	} else {
		u.writeParallel(factor, t)
	}
	u.buffer.version++
}

// writeParallel fans the chunks out to one goroutine each. It lives apart
// from Apply so the sequential path never shares a variable with the
// closures below.
func (u *InstanceTransformUpdater) writeParallel(m, t float32) {
	var g errgroup.Group
	for _, c := range u.chunks {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			u.writeRange(lo, hi, m, t)
			return nil
		})
	}
	// Workers cannot fail; Wait is the barrier before publishing.
	_ = g.Wait()
}

func (u *InstanceTransformUpdater) writeRange(lo, hi int, m, t float32) {
	l := u.layout
	out := u.buffer.transforms

	drifting := u.noise.Enabled && m < u.noise.Threshold
	amp := (1 - m) * u.noise.Amplitude
	phase := t * u.noise.Frequency
	side := amp * u.noise.HorizontalRatio

	for i := lo; i < hi; i++ {
		scatter := l.ScatterPos[i]
		pos := core.LerpVec3(scatter, l.TreePos[i], m)

		// Phase keyed by the particle's own scatter coordinates so the
		// cloud does not bob in lockstep.
		if drifting {
			pos[1] += math32.Sin(phase+scatter[0]) * amp
			pos[0] += math32.Cos(phase+scatter[1]) * side
		}

		out[i] = core.Transform{
			Position: pos,
			Rotation: core.Slerp(l.ScatterRot[i], l.TreeRot[i], m),
			Scale:    l.Scale[i],
		}
	}
}
