// Package traveler implements the animated transit of a wave from one node
// to a neighbor.
//
// A traveler follows the straight line between the positions its endpoints
// had when it was created, so its path stays stable while the points keep
// drifting. The live positions are only consulted to notice that the edge it
// runs along has grown past the cutoff, in which case it is truncated.
package traveler

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/anim"
)

// Status is reported by Update once per frame.
type Status int

const (
	// Active: still moving toward the destination.
	Active Status = iota
	// Complete: reached the destination or was truncated during this frame.
	// Reported exactly once.
	Complete
	// Stopping: finished on an earlier frame and waiting to be removed while
	// its fade or shrink plays out.
	Stopping
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Locator returns the current position of a node.
type Locator interface {
	Position(id int64) (r2.Vec, bool)
}

// Params are the settings shared by all travelers.
type Params struct {
	Speed      float64       // distance per reference frame
	Cutoff     float64       // proximity cutoff of the graph
	Radius     float64       // drawn radius
	StopTime   time.Duration // fade after reaching the destination
	ShrinkTime time.Duration // shrink after truncation
}

// DefaultRadius is the radius travelers are drawn with.
const DefaultRadius = 3

// Traveler moves from a source node toward a destination node.
type Traveler struct {
	// Wave is the index of the owning wave. It is decremented when an older
	// wave is compacted away.
	Wave int

	from     int64
	src, dst r2.Vec
	to       int64
	hasDest  bool
	params   Params
	traveled float64
	done     bool
	last     Status
	body     *anim.Body
}

// New creates a traveler from node from at src toward node to at dst.
func New(p Params, wave int, from int64, src r2.Vec, to int64, dst r2.Vec) *Traveler {
	if p.Radius == 0 {
		p.Radius = DefaultRadius
	}
	return &Traveler{
		Wave:    wave,
		from:    from,
		src:     src,
		dst:     dst,
		to:      to,
		hasDest: true,
		params:  p,
		body:    anim.NewBody(src, p.Radius),
	}
}

// From returns the source node id.
func (t *Traveler) From() int64 { return t.from }

// Dest returns the destination node id, false if the traveler was truncated.
func (t *Traveler) Dest() (int64, bool) { return t.to, t.hasDest }

// Traveled returns the distance covered so far.
func (t *Traveler) Traveled() float64 { return t.traveled }

// Done reports whether the traveler has left the active state.
func (t *Traveler) Done() bool { return t.done }

// Last returns the status reported by the most recent Update.
func (t *Traveler) Last() Status { return t.last }

// Body returns the drawable part of the traveler.
func (t *Traveler) Body() *anim.Body { return t.body }

// Source returns the fixed start of the path.
func (t *Traveler) Source() r2.Vec { return t.src }

// Target returns the fixed end of the path.
func (t *Traveler) Target() r2.Vec { return t.dst }

// Update advances the traveler by one frame. timeScale is the frame duration
// relative to the reference frame.
func (t *Traveler) Update(timeScale float64, loc Locator) Status {
	t.last = t.update(timeScale, loc)
	return t.last
}

func (t *Traveler) update(timeScale float64, loc Locator) Status {
	pos := t.interpolate()

	if t.done {
		if t.hasDest {
			t.body.MoveTo(t.dst)
		} else {
			t.body.MoveTo(pos)
		}
		return Stopping
	}

	step := t.params.Speed * timeScale
	if r2.Norm(r2.Sub(t.dst, pos)) <= math.Max(t.params.Speed, step) {
		t.done = true
		t.body.FadeOut(t.params.StopTime)
		return Complete
	}

	if t.span(loc) > t.params.Cutoff {
		t.done = true
		t.hasDest = false
		t.body.ShrinkTo(0, t.params.ShrinkTime)
		return Complete
	}

	t.body.MoveTo(pos)
	t.traveled += step
	return Active
}

// interpolate returns the point on the fixed path at the traveled distance.
func (t *Traveler) interpolate() r2.Vec {
	dir := r2.Sub(t.dst, t.src)
	n := r2.Norm(dir)
	if n == 0 {
		return t.src
	}
	return r2.Add(t.src, r2.Scale(t.traveled/n, dir))
}

// span is the current length of the edge, using live positions when known.
func (t *Traveler) span(loc Locator) float64 {
	src, dst := t.src, t.dst
	if loc != nil {
		if p, ok := loc.Position(t.from); ok {
			src = p
		}
		if p, ok := loc.Position(t.to); ok {
			dst = p
		}
	}
	return r2.Norm(r2.Sub(dst, src))
}
