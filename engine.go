package ornatree

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// pcgStream is the fixed second PCG word; the seed picks the sequence.
const pcgStream = 0x9e3779b97f4a7c15

// Engine owns the generated layouts and both morphing groups. A host render
// loop calls SetLayoutMode when the toggle changes and Update once per
// frame, then reads Transforms, Colors and Ornaments. Engine is not safe
// for concurrent use; everything runs on the caller's goroutine.
type Engine struct {
	id   uuid.UUID
	cfg  Config
	seed uint64
	log  Logger

	mode      LayoutMode
	layout    *ParticleLayout
	colors    *ColorTable
	particles *InstanceTransformUpdater
	ornaments *OrnamentMotionController

	frame uint64
}

type Option func(*Engine)

func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine validates cfg, generates both layouts and the color table, and
// writes an initial frame settled at cfg.LayoutMode.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		id:  uuid.New(),
		cfg: cfg,
		log: NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if cfg.Seed != nil {
		e.seed = *cfg.Seed
	} else {
		e.seed = uint64(time.Now().UnixNano())
		e.log.Warnf("engine %s: no seed configured, using %d; set seed to reproduce this layout", e.id, e.seed)
	}
	rng := rand.New(rand.NewPCG(e.seed, pcgStream))

	palette, err := ParsePalette(cfg.Colors)
	if err != nil {
		return nil, err
	}

	e.layout = GenerateParticles(cfg.Particles, rng)
	e.colors = AssignColors(e.layout.Len(), cfg.Colors, palette, rng)
	placements := GenerateOrnaments(cfg.Ornaments, rng)

	e.particles = NewInstanceTransformUpdater(e.layout, cfg.ParticleRate(), cfg.Noise, cfg.Workers)
	e.ornaments, err = NewOrnamentMotionController(placements, cfg.OrnamentRate(), cfg.OrnamentMotion)
	if err != nil {
		return nil, fmt.Errorf("failed to create ornament controller: %w", err)
	}

	e.mode = cfg.LayoutMode
	e.particles.SetTarget(e.mode.Target())
	e.ornaments.SetTarget(e.mode.Target())
	e.particles.Update(0)
	e.ornaments.Update(0)

	e.log.Infof("engine %s: seed=%d particles=%d ornaments=%d gold=%d workers=%d mode=%s",
		e.id, e.seed, e.layout.Len(), e.ornaments.Len(), e.colors.Count(ColorGold), e.particles.Workers(), e.mode)
	return e, nil
}

func (e *Engine) ID() uuid.UUID                        { return e.id }
func (e *Engine) Seed() uint64                         { return e.seed }
func (e *Engine) Config() Config                       { return e.cfg }
func (e *Engine) Frame() uint64                        { return e.frame }
func (e *Engine) LayoutMode() LayoutMode               { return e.mode }
func (e *Engine) Layout() *ParticleLayout              { return e.layout }
func (e *Engine) Colors() *ColorTable                  { return e.colors }
func (e *Engine) Transforms() *TransformBuffer         { return e.particles.Buffer() }
func (e *Engine) Particles() *InstanceTransformUpdater { return e.particles }
func (e *Engine) Ornaments() *OrnamentMotionController { return e.ornaments }
func (e *Engine) ParticleFactor() float32              { return e.particles.Morph().Factor() }

// SetLayoutMode retargets every morph group. The change takes effect
// gradually over the following Update calls.
func (e *Engine) SetLayoutMode(mode LayoutMode) {
	if mode == e.mode {
		return
	}
	e.log.Debugf("engine %s: layout %s -> %s at frame %d (particle factor %.3f)",
		e.id, e.mode, mode, e.frame, e.ParticleFactor())
	e.mode = mode
	e.particles.SetTarget(mode.Target())
	e.ornaments.SetTarget(mode.Target())
}

func (e *Engine) ToggleLayout() LayoutMode {
	e.SetLayoutMode(e.mode.Toggle())
	return e.mode
}

// Update runs one frame: it advances every morph group by dt seconds and
// rewrites the particle buffer and the ornament transforms.
func (e *Engine) Update(dt float32) {
	e.particles.Update(dt)
	e.ornaments.Update(dt)
	e.frame++
}

// Settled reports whether every group is within eps of its target.
func (e *Engine) Settled(eps float32) bool {
	target := e.mode.Target()
	if math32.Abs(e.ParticleFactor()-target) > eps {
		return false
	}
	for i := 0; i < e.ornaments.Len(); i++ {
		if math32.Abs(e.ornaments.Factor(i)-target) > eps {
			return false
		}
	}
	return true
}
