// Package physics moves the points around the canvas between frames.
// The motion is decorative: points drift at a constant speed and wrap around
// the canvas edges.
package physics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/harmonica"
	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/models"
)

const (
	// DriftSpeed is the distance a point moves per reference frame.
	DriftSpeed = 0.42
	// PointRadius is the drawn radius of a point.
	PointRadius = 3
	// WrapBuffer is how far past the edge a point travels before wrapping.
	WrapBuffer = 80

	referenceFPS = 60
)

// Model defines an interface for motion models
type Model interface {
	GetName() string
	Initialize(points []models.Point, bounds models.Bounds)
	Step(points []models.Point, timeScale float64) // Moves points in place
	Resize(bounds models.Bounds)
}

// drift is the per-point heading state
type drift struct {
	heading float64 // radians
	vel     float64 // angular velocity used by the spring
	target  float64
}

// WanderModel moves each point along a heading that slowly eases toward a
// randomly chosen target heading. A new target is picked once the heading
// gets close.
type WanderModel struct {
	bounds    models.Bounds
	rng       *rand.Rand
	drifts    map[int64]*drift
	frequency float64 // spring angular frequency
	damping   float64
	settle    float64 // radians; pick a new target when closer than this
	spring    harmonica.Spring
	scale     float64 // timeScale the spring was built for
	mu        sync.Mutex
}

// NewWanderModel creates a wander model seeded with seed
func NewWanderModel(seed uint64) *WanderModel {
	return &WanderModel{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		drifts:    make(map[int64]*drift),
		frequency: 0.06,
		damping:   1.0,
		settle:    0.5 * math.Pi / 180,
		scale:     -1,
	}
}

// GetName returns the name of the motion model
func (wm *WanderModel) GetName() string {
	return "wander"
}

// Initialize assigns every point a random heading and target
func (wm *WanderModel) Initialize(points []models.Point, bounds models.Bounds) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wm.bounds = bounds
	wm.drifts = make(map[int64]*drift, len(points))
	for _, p := range points {
		wm.drifts[p.ID] = &drift{
			heading: wm.rng.Float64() * 2 * math.Pi,
			target:  (wm.rng.Float64() - 0.5) * 2 * math.Pi,
		}
	}
}

// Step moves every point one frame
func (wm *WanderModel) Step(points []models.Point, timeScale float64) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if timeScale <= 0 {
		return
	}
	if timeScale != wm.scale {
		wm.spring = harmonica.NewSpring(harmonica.FPS(referenceFPS)*timeScale, wm.frequency, wm.damping)
		wm.scale = timeScale
	}
	for i := range points {
		p := &points[i]
		d, ok := wm.drifts[p.ID]
		if !ok {
			d = &drift{heading: wm.rng.Float64() * 2 * math.Pi}
			d.target = d.heading
			wm.drifts[p.ID] = d
		}
		p.Pos = wrap(r2.Add(p.Pos, heading(d.heading, DriftSpeed*timeScale)), wm.bounds)

		if math.Abs(d.heading-d.target) > wm.settle {
			d.heading, d.vel = wm.spring.Update(d.heading, d.vel, d.target)
		} else {
			d.target = wm.rng.Float64() * 2 * math.Pi
		}
	}
}

// Resize updates the wrapping bounds
func (wm *WanderModel) Resize(bounds models.Bounds) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.bounds = bounds
}

// FlowModel steers points along a simplex noise flow field that slowly
// evolves over time.
type FlowModel struct {
	bounds         models.Bounds
	noiseGenerator opensimplex.Noise
	noiseScale     float64
	timeStep       float64
	timeRate       float64
	mu             sync.Mutex
}

// NewFlowModel creates a flow model seeded with seed
func NewFlowModel(seed int64) *FlowModel {
	return &FlowModel{
		noiseGenerator: opensimplex.New(seed),
		noiseScale:     0.004,
		timeRate:       0.002,
	}
}

// GetName returns the name of the motion model
func (fm *FlowModel) GetName() string {
	return "flow"
}

// Initialize stores the bounds; the field needs no per-point state
func (fm *FlowModel) Initialize(points []models.Point, bounds models.Bounds) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.bounds = bounds
	fm.timeStep = 0
}

// Step moves every point one frame along the field
func (fm *FlowModel) Step(points []models.Point, timeScale float64) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	for i := range points {
		p := &points[i]
		n := fm.noiseGenerator.Eval3(p.Pos.X*fm.noiseScale, p.Pos.Y*fm.noiseScale, fm.timeStep)
		p.Pos = wrap(r2.Add(p.Pos, heading(n*2*math.Pi, DriftSpeed*timeScale)), fm.bounds)
	}
	fm.timeStep += fm.timeRate * timeScale
}

// Resize updates the wrapping bounds
func (fm *FlowModel) Resize(bounds models.Bounds) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.bounds = bounds
}

// StaticModel leaves points where they are
type StaticModel struct{}

func (StaticModel) GetName() string                         { return "static" }
func (StaticModel) Initialize([]models.Point, models.Bounds) {}
func (StaticModel) Step([]models.Point, float64)             {}
func (StaticModel) Resize(models.Bounds)                     {}

// heading returns a vector of length speed pointing at angle
func heading(angle, speed float64) r2.Vec {
	return r2.Rotate(r2.Vec{X: speed}, angle, r2.Vec{})
}

// wrap moves a point that left the padded canvas to the opposite edge
func wrap(p r2.Vec, b models.Bounds) r2.Vec {
	pad := float64(PointRadius + WrapBuffer)
	if p.X < -pad {
		p.X = b.Width + pad
	} else if p.X > b.Width+pad {
		p.X = -pad
	}
	if p.Y < -pad {
		p.Y = b.Height + pad
	} else if p.Y > b.Height+pad {
		p.Y = -pad
	}
	return p
}

// GetModel returns a motion model by name
func GetModel(name string, seed int64) (Model, error) {
	switch name {
	case "wander", "":
		return NewWanderModel(uint64(seed)), nil
	case "flow":
		return NewFlowModel(seed), nil
	case "static":
		return StaticModel{}, nil
	default:
		return nil, fmt.Errorf("unknown motion model: %s", name)
	}
}
