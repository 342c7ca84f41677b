package animation

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// springStepsPerSecond is the fixed integration rate. Frame deltas are
// accumulated and consumed in whole steps so results do not depend on the
// host frame rate.
const springStepsPerSecond = 120

// SpringDescription configures a damped spring.
type SpringDescription struct {
	// AngularFrequency controls stiffness; higher values settle faster.
	AngularFrequency float64
	// DampingRatio below 1 overshoots, 1 is critically damped.
	DampingRatio float64
}

// PagingSpring is the spring used for snapping a carousel onto a page.
// It is slightly under-damped so fast swipes get a small settle.
func PagingSpring() SpringDescription {
	return SpringDescription{AngularFrequency: 14, DampingRatio: 0.86}
}

// CriticalSpring settles as fast as possible without overshoot.
func CriticalSpring() SpringDescription {
	return SpringDescription{AngularFrequency: 12, DampingRatio: 1}
}

// SpringSimulation animates a value toward a target with spring physics.
type SpringSimulation struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
	pending  float64
	done     bool

	// Tolerance is the distance from the target below which the spring is
	// considered settled, provided velocity is also below VelocityTolerance.
	Tolerance         float64
	VelocityTolerance float64
}

// NewSpringSimulation starts a spring at position with the given velocity
// (units per second), heading for target.
func NewSpringSimulation(desc SpringDescription, position, velocity, target float64) *SpringSimulation {
	return &SpringSimulation{
		spring:            harmonica.NewSpring(harmonica.FPS(springStepsPerSecond), desc.AngularFrequency, desc.DampingRatio),
		position:          position,
		velocity:          velocity,
		target:            target,
		Tolerance:         0.5,
		VelocityTolerance: 5,
	}
}

// Step advances the simulation by dt seconds and reports whether it has
// settled. A settled spring sits exactly on its target.
func (s *SpringSimulation) Step(dt float64) bool {
	if s.done {
		return true
	}
	if dt <= 0 || math.IsNaN(dt) {
		return false
	}
	const step = 1.0 / springStepsPerSecond
	s.pending += dt
	// Epsilon absorbs float drift so 1/30s always yields four whole steps.
	steps := int(s.pending*springStepsPerSecond + 1e-9)
	s.pending -= float64(steps) * step
	if s.pending < 0 {
		s.pending = 0
	}
	for range steps {
		s.position, s.velocity = s.spring.Update(s.position, s.velocity, s.target)
		if s.settled() {
			s.position = s.target
			s.velocity = 0
			s.done = true
			return true
		}
	}
	return false
}

func (s *SpringSimulation) settled() bool {
	return math.Abs(s.position-s.target) < s.Tolerance && math.Abs(s.velocity) < s.VelocityTolerance
}

// Retarget redirects a running spring without resetting its velocity.
func (s *SpringSimulation) Retarget(target float64) {
	s.target = target
	s.done = s.settled()
	if s.done {
		s.position = target
		s.velocity = 0
	}
}

// Position returns the current value.
func (s *SpringSimulation) Position() float64 { return s.position }

// Velocity returns the current velocity in units per second.
func (s *SpringSimulation) Velocity() float64 { return s.velocity }

// Target returns the value the spring is heading for.
func (s *SpringSimulation) Target() float64 { return s.target }

// IsDone reports whether the spring has settled on its target.
func (s *SpringSimulation) IsDone() bool { return s.done }
