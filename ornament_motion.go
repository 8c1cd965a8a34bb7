package ornatree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gekko3d/ornatree/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-sine":  ease.InOutSine,
}

// EasingNames lists the accepted ornament_motion.easing values.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupEasing(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown easing %q (want one of %s)", ErrInvalidConfig, name, strings.Join(EasingNames(), ", "))
	}
	return fn, nil
}

var (
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)

// OrnamentMotionController moves each ornament between its scattered and
// assembled position. Every ornament owns its MorphState; all of them
// follow the same target. Results land in one core.Transform per
// ornament, index-aligned with the placements.
type OrnamentMotionController struct {
	placements []OrnamentPlacement
	morphs     []MorphState
	transforms []core.Transform

	motion  OrnamentMotionConfig
	easing  ease.TweenFunc
	elapsed float32
}

func NewOrnamentMotionController(placements []OrnamentPlacement, responsiveness float32, motion OrnamentMotionConfig) (*OrnamentMotionController, error) {
	easing, err := lookupEasing(motion.Easing)
	if err != nil {
		return nil, err
	}

	c := &OrnamentMotionController{
		placements: placements,
		morphs:     make([]MorphState, len(placements)),
		transforms: make([]core.Transform, len(placements)),
		motion:     motion,
		easing:     easing,
	}
	for i := range c.morphs {
		c.morphs[i] = NewMorphState(responsiveness)
		c.transforms[i] = core.Identity()
	}
	return c, nil
}

func (c *OrnamentMotionController) Len() int                        { return len(c.placements) }
func (c *OrnamentMotionController) Placements() []OrnamentPlacement { return c.placements }
func (c *OrnamentMotionController) Transform(i int) core.Transform  { return c.transforms[i] }
func (c *OrnamentMotionController) Morph(i int) *MorphState         { return &c.morphs[i] }
func (c *OrnamentMotionController) Factor(i int) float32            { return c.morphs[i].Factor() }

// Transforms exposes the per-ornament transforms. Callers must treat the
// slice as read-only.
func (c *OrnamentMotionController) Transforms() []core.Transform { return c.transforms }

func (c *OrnamentMotionController) SetTarget(target float32) {
	for i := range c.morphs {
		c.morphs[i].SetTarget(target)
	}
}

// Update steps every ornament's MorphState by dt seconds and rewrites its
// transform.
func (c *OrnamentMotionController) Update(dt float32) {
	if dt > 0 {
		c.elapsed += dt
	}
	for i := range c.placements {
		m := c.morphs[i].Update(dt)
		c.write(i, m)
	}
}

func (c *OrnamentMotionController) write(i int, m float32) {
	p := &c.placements[i]
	tr := &c.transforms[i]

	e := m
	if m > 0 && m < 1 {
		e = clamp01(c.easing(m, 0, 1, 1))
	}
	tr.Position = core.LerpVec3(p.ScatterPos, p.TreePos, e)

	scale := p.Scale
	rot := mgl32.QuatIdent()
	if c.motion.IdleMotion {
		switch p.Type {
		case OrnamentDiamond:
			spin := mgl32.QuatRotate(c.elapsed*c.motion.SpinSpeed, axisY)
			wobble := mgl32.QuatRotate(math32.Sin(c.elapsed*c.motion.WobbleFrequency)*c.motion.WobbleAmplitude, axisZ)
			rot = spin.Mul(wobble)
		case OrnamentLight:
			scale += math32.Sin(c.elapsed*c.motion.BreathFrequency) * c.motion.BreathAmplitude
		}
	}
	tr.Rotation = rot
	tr.Scale = mgl32.Vec3{scale, scale, scale}
}
