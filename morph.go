package ornatree

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MorphState smooths a binary layout target into a continuous factor in
// [0,1]: 0 is fully scattered, 1 fully assembled. The step is frame-rate
// independent exponential decay and never overshoots the target.
//
// The zero value is not usable; construct with NewMorphState.
type MorphState struct {
	current        float32
	target         float32
	responsiveness float32
	initialized    bool
}

func NewMorphState(responsiveness float32) MorphState {
	return MorphState{responsiveness: responsiveness}
}

func (m *MorphState) Factor() float32         { return m.current }
func (m *MorphState) Target() float32         { return m.target }
func (m *MorphState) Responsiveness() float32 { return m.responsiveness }

// SetTarget changes the target instantly. The first target a state ever
// sees also becomes its current factor, so a freshly created group starts
// settled instead of sweeping across the screen.
func (m *MorphState) SetTarget(target float32) {
	target = clamp01(target)
	m.target = target
	if !m.initialized {
		m.current = target
		m.initialized = true
	}
}

// Reset forces the current factor, e.g. to replay a transition.
func (m *MorphState) Reset(factor float32) {
	m.current = clamp01(factor)
	m.initialized = true
}

// Update advances the factor by dt seconds and returns it. Non-positive
// dt leaves the factor unchanged.
func (m *MorphState) Update(dt float32) float32 {
	if !m.initialized {
		m.SetTarget(m.target)
	}
	if !(dt > 0) {
		return m.current
	}

	alpha := 1 - math32.Exp(-m.responsiveness*dt)
	next := m.current + (m.target-m.current)*alpha

	// Rounding must not carry the factor past the target.
	if m.current <= m.target {
		next = mgl32.Clamp(next, m.current, m.target)
	} else {
		next = mgl32.Clamp(next, m.target, m.current)
	}
	m.current = next
	return m.current
}

func clamp01(x float32) float32 { return mgl32.Clamp(x, 0, 1) }
