package ornatree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfig is wrapped by every error Config.Validate reports.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultParticleResponsiveness float32 = 3.0
	DefaultOrnamentResponsiveness float32 = 2.5

	// radiusEpsilon replaces any requested radius <= 0 during generation.
	radiusEpsilon float32 = 1e-4
)

type LayoutMode int

const (
	LayoutScattered LayoutMode = iota
	LayoutAssembled
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutAssembled:
		return "assembled"
	case LayoutScattered:
		return "scattered"
	}
	return fmt.Sprintf("LayoutMode(%d)", int(m))
}

// Target is the morph factor this mode drives every MorphState toward.
func (m LayoutMode) Target() float32 {
	if m == LayoutAssembled {
		return 1
	}
	return 0
}

func (m LayoutMode) Toggle() LayoutMode {
	if m == LayoutAssembled {
		return LayoutScattered
	}
	return LayoutAssembled
}

// ParseLayoutMode accepts "assembled"/"tree" and "scattered"/"floating".
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assembled", "tree":
		return LayoutAssembled, nil
	case "scattered", "floating":
		return LayoutScattered, nil
	}
	return 0, fmt.Errorf("%w: unknown layout mode %q", ErrInvalidConfig, s)
}

func (m LayoutMode) MarshalText() ([]byte, error) {
	if m != LayoutAssembled && m != LayoutScattered {
		return nil, fmt.Errorf("%w: unknown layout mode %d", ErrInvalidConfig, int(m))
	}
	return []byte(m.String()), nil
}

func (m *LayoutMode) UnmarshalText(text []byte) error {
	parsed, err := ParseLayoutMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParticleLayoutConfig shapes the needle particles: a tapered cone when
// assembled, a uniform ball when scattered.
type ParticleLayoutConfig struct {
	Count         int        `yaml:"count" toml:"count"`
	YMin          float32    `yaml:"y_min" toml:"y_min"`
	YMax          float32    `yaml:"y_max" toml:"y_max"`
	BaseRadius    float32    `yaml:"base_radius" toml:"base_radius"`
	RadiusJitter  [2]float32 `yaml:"radius_jitter" toml:"radius_jitter"`
	LookUpOffset  float32    `yaml:"look_up_offset" toml:"look_up_offset"`
	ScatterRadius float32    `yaml:"scatter_radius" toml:"scatter_radius"`
	ScaleMin      mgl32.Vec3 `yaml:"scale_min" toml:"scale_min"`
	ScaleMax      mgl32.Vec3 `yaml:"scale_max" toml:"scale_max"`
}

// SpecialSlotConfig places a single ornament outside the helix.
type SpecialSlotConfig struct {
	Enabled    bool       `yaml:"enabled" toml:"enabled"`
	TreePos    mgl32.Vec3 `yaml:"tree_pos" toml:"tree_pos"`
	ScatterPos mgl32.Vec3 `yaml:"scatter_pos" toml:"scatter_pos"`
	Scale      float32    `yaml:"scale" toml:"scale"`
}

// OrnamentLayoutConfig shapes the ornament helix wound around the cone.
type OrnamentLayoutConfig struct {
	Count          int        `yaml:"count" toml:"count"`
	Turns          float32    `yaml:"turns" toml:"turns"`
	Height         float32    `yaml:"height" toml:"height"`
	HeightOffset   float32    `yaml:"height_offset" toml:"height_offset"`
	HeightJitter   float32    `yaml:"height_jitter" toml:"height_jitter"`
	BaseRadius     float32    `yaml:"base_radius" toml:"base_radius"`
	RadiusTaper    float32    `yaml:"radius_taper" toml:"radius_taper"`
	MinRadius      float32    `yaml:"min_radius" toml:"min_radius"`
	ScatterRadius  float32    `yaml:"scatter_radius" toml:"scatter_radius"`
	ScaleRange     [2]float32 `yaml:"scale_range" toml:"scale_range"`
	GoldScaleBoost float32    `yaml:"gold_scale_boost" toml:"gold_scale_boost"`
	LightScale     float32    `yaml:"light_scale" toml:"light_scale"`

	Topper SpecialSlotConfig `yaml:"topper" toml:"topper"`
	Base   SpecialSlotConfig `yaml:"base" toml:"base"`
}

// ColorConfig drives the one-time per-particle color draw. Colors are hex
// strings; Linear emits linear-light RGB instead of sRGB.
type ColorConfig struct {
	GoldProbability      float32 `yaml:"gold_probability" toml:"gold_probability"`
	HighlightProbability float32 `yaml:"highlight_probability" toml:"highlight_probability"`
	Gold                 string  `yaml:"gold" toml:"gold"`
	EmeraldBase          string  `yaml:"emerald_base" toml:"emerald_base"`
	EmeraldHighlight     string  `yaml:"emerald_highlight" toml:"emerald_highlight"`
	Linear               bool    `yaml:"linear" toml:"linear"`
}

// NoiseConfig is the floating drift added to particles that are not yet
// assembled.
type NoiseConfig struct {
	Enabled         bool    `yaml:"enabled" toml:"enabled"`
	Frequency       float32 `yaml:"frequency" toml:"frequency"`
	Amplitude       float32 `yaml:"amplitude" toml:"amplitude"`
	Threshold       float32 `yaml:"threshold" toml:"threshold"`
	HorizontalRatio float32 `yaml:"horizontal_ratio" toml:"horizontal_ratio"`
}

// OrnamentMotionConfig holds the ornament easing curve and the local idle
// animation of diamonds and lights.
type OrnamentMotionConfig struct {
	Easing          string  `yaml:"easing" toml:"easing"`
	IdleMotion      bool    `yaml:"idle_motion" toml:"idle_motion"`
	SpinSpeed       float32 `yaml:"spin_speed" toml:"spin_speed"`
	WobbleAmplitude float32 `yaml:"wobble_amplitude" toml:"wobble_amplitude"`
	WobbleFrequency float32 `yaml:"wobble_frequency" toml:"wobble_frequency"`
	BreathAmplitude float32 `yaml:"breath_amplitude" toml:"breath_amplitude"`
	BreathFrequency float32 `yaml:"breath_frequency" toml:"breath_frequency"`
}

type Config struct {
	LayoutMode LayoutMode `yaml:"layout_mode" toml:"layout_mode"`

	// Seed fixes the generator RNG. Nil seeds from the wall clock.
	Seed *uint64 `yaml:"seed" toml:"seed"`

	// Optional per-group overrides; nil keeps the defaults.
	ParticleResponsiveness *float32 `yaml:"particle_responsiveness" toml:"particle_responsiveness"`
	OrnamentResponsiveness *float32 `yaml:"ornament_responsiveness" toml:"ornament_responsiveness"`

	// Workers > 1 splits the particle pass across goroutines.
	Workers int `yaml:"workers" toml:"workers"`

	Particles      ParticleLayoutConfig `yaml:"particles" toml:"particles"`
	Ornaments      OrnamentLayoutConfig `yaml:"ornaments" toml:"ornaments"`
	Colors         ColorConfig          `yaml:"colors" toml:"colors"`
	Noise          NoiseConfig          `yaml:"noise" toml:"noise"`
	OrnamentMotion OrnamentMotionConfig `yaml:"ornament_motion" toml:"ornament_motion"`
}

func DefaultParticleLayoutConfig() ParticleLayoutConfig {
	return ParticleLayoutConfig{
		Count:         1800,
		YMin:          -3.5,
		YMax:          4.5,
		BaseRadius:    2.8,
		RadiusJitter:  [2]float32{0.8, 1.2},
		LookUpOffset:  0.5,
		ScatterRadius: 9,
		ScaleMin:      mgl32.Vec3{0.05, 0.3, 0.05},
		ScaleMax:      mgl32.Vec3{0.1, 0.6, 0.1},
	}
}

func DefaultOrnamentLayoutConfig() OrnamentLayoutConfig {
	return OrnamentLayoutConfig{
		Count:          70,
		Turns:          5,
		Height:         7.5,
		HeightOffset:   3.5,
		HeightJitter:   0.5,
		BaseRadius:     2.9,
		RadiusTaper:    0.9,
		MinRadius:      0.2,
		ScatterRadius:  8,
		ScaleRange:     [2]float32{0.1, 0.2},
		GoldScaleBoost: 1.2,
		LightScale:     0.08,
		Topper: SpecialSlotConfig{
			Enabled:    true,
			TreePos:    mgl32.Vec3{0, 4.6, 0},
			ScatterPos: mgl32.Vec3{0, 8, 0},
			Scale:      0.5,
		},
		Base: SpecialSlotConfig{
			Enabled:    true,
			TreePos:    mgl32.Vec3{0, -3.8, 0},
			ScatterPos: mgl32.Vec3{0, -9, 0},
			Scale:      1,
		},
	}
}

func DefaultColorConfig() ColorConfig {
	return ColorConfig{
		GoldProbability:      0.15,
		HighlightProbability: 0.2,
		Gold:                 "#FFD700",
		EmeraldBase:          "#064e3b",
		EmeraldHighlight:     "#10b981",
	}
}

func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Enabled:         true,
		Frequency:       0.5,
		Amplitude:       0.5,
		Threshold:       0.95,
		HorizontalRatio: 0.5,
	}
}

func DefaultOrnamentMotionConfig() OrnamentMotionConfig {
	return OrnamentMotionConfig{
		Easing:          "linear",
		IdleMotion:      true,
		SpinSpeed:       0.6,
		WobbleAmplitude: 0.2,
		WobbleFrequency: 0.5,
		BreathAmplitude: 0.01,
		BreathFrequency: 3,
	}
}

// DefaultConfig returns the reference tree: 1800 needles, 70 helix
// ornaments plus topper and base, starting assembled.
func DefaultConfig() Config {
	return Config{
		LayoutMode:     LayoutAssembled,
		Workers:        1,
		Particles:      DefaultParticleLayoutConfig(),
		Ornaments:      DefaultOrnamentLayoutConfig(),
		Colors:         DefaultColorConfig(),
		Noise:          DefaultNoiseConfig(),
		OrnamentMotion: DefaultOrnamentMotionConfig(),
	}
}

func (c Config) ParticleRate() float32 {
	if c.ParticleResponsiveness != nil {
		return *c.ParticleResponsiveness
	}
	return DefaultParticleResponsiveness
}

func (c Config) OrnamentRate() float32 {
	if c.OrnamentResponsiveness != nil {
		return *c.OrnamentResponsiveness
	}
	return DefaultOrnamentResponsiveness
}

// Validate reports every problem at once. Radii are not checked: a
// radius <= 0 is clamped during generation.
func (c Config) Validate() error {
	var v validator

	if c.LayoutMode != LayoutAssembled && c.LayoutMode != LayoutScattered {
		v.fail("layout_mode %d is not a known mode", int(c.LayoutMode))
	}
	v.positive("particle_responsiveness", c.ParticleRate())
	v.positive("ornament_responsiveness", c.OrnamentRate())
	if c.Workers < 0 {
		v.fail("workers must be >= 0, got %d", c.Workers)
	}

	p := c.Particles
	if p.Count < 0 {
		v.fail("particles.count must be >= 0, got %d", p.Count)
	}
	v.finite("particles.y_min", p.YMin)
	v.finite("particles.y_max", p.YMax)
	if p.YMax < p.YMin {
		v.fail("particles.y_max (%g) is below y_min (%g)", p.YMax, p.YMin)
	}
	v.finite("particles.base_radius", p.BaseRadius)
	v.finite("particles.scatter_radius", p.ScatterRadius)
	v.finite("particles.look_up_offset", p.LookUpOffset)
	v.rangeOrdered("particles.radius_jitter", p.RadiusJitter[0], p.RadiusJitter[1])
	if p.RadiusJitter[0] < 0 {
		v.fail("particles.radius_jitter must not be negative, got %g", p.RadiusJitter[0])
	}
	for axis := 0; axis < 3; axis++ {
		name := fmt.Sprintf("particles.scale[%d]", axis)
		v.positive(name, p.ScaleMin[axis])
		v.rangeOrdered(name, p.ScaleMin[axis], p.ScaleMax[axis])
	}

	o := c.Ornaments
	if o.Count < 0 {
		v.fail("ornaments.count must be >= 0, got %d", o.Count)
	}
	v.finite("ornaments.turns", o.Turns)
	v.finite("ornaments.height", o.Height)
	v.finite("ornaments.height_offset", o.HeightOffset)
	v.nonNegative("ornaments.height_jitter", o.HeightJitter)
	v.finite("ornaments.base_radius", o.BaseRadius)
	v.finite("ornaments.scatter_radius", o.ScatterRadius)
	v.nonNegative("ornaments.min_radius", o.MinRadius)
	if o.RadiusTaper < 0 || o.RadiusTaper > 1 || math32.IsNaN(o.RadiusTaper) {
		v.fail("ornaments.radius_taper must be within [0,1], got %g", o.RadiusTaper)
	}
	v.positive("ornaments.scale_range", o.ScaleRange[0])
	v.rangeOrdered("ornaments.scale_range", o.ScaleRange[0], o.ScaleRange[1])
	v.positive("ornaments.gold_scale_boost", o.GoldScaleBoost)
	v.positive("ornaments.light_scale", o.LightScale)
	if o.Topper.Enabled {
		v.positive("ornaments.topper.scale", o.Topper.Scale)
	}
	if o.Base.Enabled {
		v.positive("ornaments.base.scale", o.Base.Scale)
	}

	v.probability("colors.gold_probability", c.Colors.GoldProbability)
	v.probability("colors.highlight_probability", c.Colors.HighlightProbability)
	if _, err := ParsePalette(c.Colors); err != nil {
		v.errs = append(v.errs, err)
	}

	n := c.Noise
	v.nonNegative("noise.frequency", n.Frequency)
	v.nonNegative("noise.amplitude", n.Amplitude)
	v.probability("noise.threshold", n.Threshold)
	v.nonNegative("noise.horizontal_ratio", n.HorizontalRatio)

	m := c.OrnamentMotion
	if _, err := lookupEasing(m.Easing); err != nil {
		v.errs = append(v.errs, err)
	}
	v.finite("ornament_motion.spin_speed", m.SpinSpeed)
	v.nonNegative("ornament_motion.wobble_amplitude", m.WobbleAmplitude)
	v.nonNegative("ornament_motion.wobble_frequency", m.WobbleFrequency)
	v.nonNegative("ornament_motion.breath_frequency", m.BreathFrequency)
	if m.BreathAmplitude < 0 || m.BreathAmplitude >= o.LightScale {
		v.fail("ornament_motion.breath_amplitude must be within [0, light_scale), got %g", m.BreathAmplitude)
	}

	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
}

func (v *validator) finite(name string, x float32) {
	if math32.IsNaN(x) || math32.IsInf(x, 0) {
		v.fail("%s must be finite, got %g", name, x)
	}
}

func (v *validator) positive(name string, x float32) {
	if !(x > 0) || math32.IsInf(x, 0) {
		v.fail("%s must be positive and finite, got %g", name, x)
	}
}

func (v *validator) nonNegative(name string, x float32) {
	if !(x >= 0) || math32.IsInf(x, 0) {
		v.fail("%s must be non-negative and finite, got %g", name, x)
	}
}

func (v *validator) probability(name string, p float32) {
	if !(p >= 0 && p <= 1) {
		v.fail("%s must be within [0,1], got %g", name, p)
	}
}

func (v *validator) rangeOrdered(name string, lo, hi float32) {
	if hi < lo {
		v.fail("%s max (%g) is below min (%g)", name, hi, lo)
	}
}

func clampRadius(r float32) float32 {
	if !(r > 0) {
		return radiusEpsilon
	}
	return r
}
