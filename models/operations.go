package models

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// NewPoint creates a point at (x, y).
func NewPoint(id int64, x, y float64) Point {
	return Point{ID: id, Pos: r2.Vec{X: x, Y: y}}
}

// NewRunID returns a unique identifier for a simulation run.
func NewRunID() string {
	return uuid.New().String()
}

// NewWaveTag returns a stable name for a wave.
// Wave indices shift when older waves retire, the tag does not.
func NewWaveTag() string {
	return uuid.New().String()
}

// NewSnapshot creates an empty snapshot for a run.
func NewSnapshot(runID string, frame int, elapsed time.Duration, b Bounds, cutoff float64) *Snapshot {
	return &Snapshot{
		RunID:     runID,
		Frame:     frame,
		Elapsed:   elapsed,
		Width:     b.Width,
		Height:    b.Height,
		Cutoff:    cutoff,
		Points:    []PointView{},
		Edges:     []EdgeView{},
		Travelers: []TravelerView{},
		Waves:     []WaveView{},
		CreatedAt: time.Now(),
	}
}

// AddPoint appends a point view.
func (s *Snapshot) AddPoint(p Point) {
	s.Points = append(s.Points, PointView{ID: p.ID, X: p.Pos.X, Y: p.Pos.Y})
}

// ClonePoints returns a copy of points safe to mutate.
func ClonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Locate returns the position of the point with the given id.
func Locate(points []Point, id int64) (r2.Vec, bool) {
	for _, p := range points {
		if p.ID == id {
			return p.Pos, true
		}
	}
	return r2.Vec{}, false
}
