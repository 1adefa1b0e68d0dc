// Package anim holds the renderable part of an animated entity: its
// position, radius and opacity, and the timed transitions applied to them.
// Renderers only read a Body; what moves it is decided elsewhere.
package anim

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transition linearly moves a value to a target over a fixed duration.
type Transition struct {
	from, to float64
	total    time.Duration
	elapsed  time.Duration
	active   bool
}

// Start begins a transition from the current value.
// A non-positive duration jumps to the target on the next Advance.
func (t *Transition) Start(from, to float64, d time.Duration) {
	*t = Transition{from: from, to: to, total: d, active: true}
}

// Advance moves the transition forward and returns the new value.
func (t *Transition) Advance(dt time.Duration, cur float64) float64 {
	if !t.active {
		return cur
	}
	t.elapsed += dt
	if t.total <= 0 || t.elapsed >= t.total {
		t.active = false
		return t.to
	}
	f := float64(t.elapsed) / float64(t.total)
	return t.from + (t.to-t.from)*f
}

// Active reports whether the transition is still running.
func (t *Transition) Active() bool { return t.active }

// Body is a drawable circle.
type Body struct {
	Pos    r2.Vec
	Radius float64
	Alpha  float64

	radius Transition
	alpha  Transition
}

// NewBody creates an opaque body.
func NewBody(pos r2.Vec, radius float64) *Body {
	return &Body{Pos: pos, Radius: radius, Alpha: 1}
}

// MoveTo repositions the body.
func (b *Body) MoveTo(p r2.Vec) { b.Pos = p }

// FadeOut fades the body to transparent over d.
func (b *Body) FadeOut(d time.Duration) { b.alpha.Start(b.Alpha, 0, d) }

// ShrinkTo changes the radius to r over d.
func (b *Body) ShrinkTo(r float64, d time.Duration) { b.radius.Start(b.Radius, r, d) }

// Advance steps running transitions by dt.
func (b *Body) Advance(dt time.Duration) {
	b.Alpha = b.alpha.Advance(dt, b.Alpha)
	b.Radius = b.radius.Advance(dt, b.Radius)
}

// Settled reports whether no transition is running.
func (b *Body) Settled() bool { return !b.alpha.Active() && !b.radius.Active() }

// Visible reports whether the body would draw anything.
func (b *Body) Visible() bool { return b.Alpha > 0 && b.Radius > 0 }
