// Package sim runs the frame loop that ties the proximity graph, the wave
// coordinator and the motion model together.
package sim

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/config"
	"github.com/TFMV/wavegraph/graph"
	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/physics"
	"github.com/TFMV/wavegraph/sched"
	"github.com/TFMV/wavegraph/traveler"
	"github.com/TFMV/wavegraph/wave"
)

// ReferenceFrame is the frame duration at which timeScale is 1.
const ReferenceFrame = time.Second / 60

// FrameObserver is an observer that also wants to hear about every frame.
type FrameObserver interface {
	Frame(travelers int)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for the driver and its coordinator.
func WithLogger(l logr.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithObserver adds an observer of wave events. If o implements
// FrameObserver it is also called once per frame.
func WithObserver(o wave.Observer) Option {
	return func(d *Driver) {
		d.obs = append(d.obs, o)
		if f, ok := o.(FrameObserver); ok {
			d.frameObs = append(d.frameObs, f)
		}
	}
}

// Driver owns the points and steps the simulation one frame at a time.
// It is not safe for concurrent use.
type Driver struct {
	cfg      config.Config
	runID    string
	bounds   models.Bounds
	points   []models.Point
	index    map[int64]int
	model    physics.Model
	graph    *graph.Proximity
	queue    sched.Queue
	coord    *wave.Coordinator
	log      logr.Logger
	obs      []wave.Observer
	frameObs []FrameObserver
	clicks   map[int][]r2.Vec
	frame    int
	elapsed  time.Duration
}

// New creates a driver over a copy of points, moved by model.
func New(cfg config.Config, points []models.Point, model physics.Model, opts ...Option) *Driver {
	d := &Driver{
		cfg:    cfg,
		runID:  models.NewRunID(),
		bounds: cfg.Bounds(),
		points: models.ClonePoints(points),
		index:  make(map[int64]int, len(points)),
		model:  model,
		graph:  graph.NewProximity(),
		log:    logr.Discard(),
		clicks: make(map[int][]r2.Vec),
	}
	for _, o := range opts {
		o(d)
	}
	for i, p := range d.points {
		d.index[p.ID] = i
	}
	wopts := []wave.Option{wave.WithLogger(d.log)}
	for _, o := range d.obs {
		wopts = append(wopts, wave.WithObserver(o))
	}
	d.coord = wave.New(cfg.Wave(), d.graph, d, &d.queue, wopts...)
	d.model.Initialize(d.points, d.bounds)
	d.graph.Update(d.points, cfg.Cutoff)
	d.log.V(1).Info("driver started", "run", d.runID, "points", len(d.points), "motion", model.GetName(), "cutoff", cfg.Cutoff)
	return d
}

// Position returns the live position of a point.
func (d *Driver) Position(id int64) (r2.Vec, bool) {
	i, ok := d.index[id]
	if !ok {
		return r2.Vec{}, false
	}
	return d.points[i].Pos, true
}

// Step advances the simulation by dt.
//
// Travelers spawned during this frame are not stepped until the next frame.
// Removals fall due against the simulated clock, not the wall clock.
func (d *Driver) Step(dt time.Duration) {
	dt = max(dt, 0) // simulated time never runs backwards
	for _, pos := range d.clicks[d.frame] {
		d.Click(pos)
	}
	delete(d.clicks, d.frame)

	scale := float64(dt) / float64(ReferenceFrame)
	d.model.Step(d.points, scale)
	d.graph.Update(d.points, d.cfg.Cutoff)

	for _, t := range d.coord.Travelers() {
		if t.Update(scale, d) == traveler.Complete {
			d.coord.OnTravelerComplete(t)
		}
	}

	d.frame++
	d.elapsed += dt
	d.queue.Poll(d.elapsed)

	live := d.coord.Travelers()
	for _, t := range live {
		t.Body().Advance(dt)
	}
	d.log.V(3).Info("frame", "frame", d.frame, "waves", len(d.coord.Waves()), "travelers", len(live), "edges", len(d.graph.Edges()))
	for _, o := range d.frameObs {
		o.Frame(len(live))
	}
}

// Click starts a wave at the point nearest pos. It does nothing when there
// are no points.
func (d *Driver) Click(pos r2.Vec) *wave.Wave {
	id, ok := graph.Nearest(d.points, pos)
	if !ok {
		return nil
	}
	d.log.V(1).Info("click", "x", pos.X, "y", pos.Y, "node", id, "reachable", len(d.graph.Reachable(id)))
	return d.coord.StartWave(id)
}

// ClickAt schedules a click at the start of the given frame.
func (d *Driver) ClickAt(frame int, pos r2.Vec) {
	d.clicks[frame] = append(d.clicks[frame], pos)
}

// Resize changes the canvas size used for wrapping. Points are not moved.
func (d *Driver) Resize(width, height float64) {
	d.bounds = models.Bounds{Width: width, Height: height}
	d.model.Resize(d.bounds)
}

// Run steps frames of length dt, or until ctx is done if frames is 0.
func (d *Driver) Run(ctx context.Context, frames int, dt time.Duration) error {
	for i := 0; frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Step(dt)
	}
	return nil
}

// Idle reports whether no waves or travelers are alive and no clicks are pending.
func (d *Driver) Idle() bool {
	return len(d.coord.Waves()) == 0 && len(d.coord.Travelers()) == 0 && len(d.clicks) == 0
}

// Frame returns the number of frames stepped.
func (d *Driver) Frame() int { return d.frame }

// Elapsed returns the simulated time.
func (d *Driver) Elapsed() time.Duration { return d.elapsed }

// Bounds returns the canvas size.
func (d *Driver) Bounds() models.Bounds { return d.bounds }

// Points returns a copy of the points.
func (d *Driver) Points() []models.Point { return models.ClonePoints(d.points) }

// Coordinator returns the wave coordinator.
func (d *Driver) Coordinator() *wave.Coordinator { return d.coord }

// Graph returns the proximity graph as of the last frame.
func (d *Driver) Graph() *graph.Proximity { return d.graph }
