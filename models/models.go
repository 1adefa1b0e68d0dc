// Package models provides data structures shared by the wavegraph packages.
// It defines the points that drift on the canvas and the read-only frame
// snapshots consumed by renderers.
package models

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a drifting node on the canvas.
// The ID is assigned at creation and never reused; other packages refer to
// points by ID only.
type Point struct {
	ID  int64  `json:"id"`
	Pos r2.Vec `json:"pos"`
}

// Bounds is the canvas size used by the motion model for wrapping.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TravelerState names the lifecycle state of a traveler in a snapshot.
type TravelerState string

const (
	TravelerActive   TravelerState = "active"
	TravelerStopping TravelerState = "stopping"
	TravelerComplete TravelerState = "complete"
)

// PointView is a point as seen in a snapshot.
type PointView struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EdgeView is an undirected proximity edge between two points.
type EdgeView struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Weight float64 `json:"weight"` // (cutoff-distance)/cutoff, in (0,1]
}

// TravelerView is a traveler as seen in a snapshot.
type TravelerView struct {
	Wave   int           `json:"wave"`
	From   int64         `json:"from"`
	To     *int64        `json:"to"` // nil when truncated
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Radius float64       `json:"radius"`
	Alpha  float64       `json:"alpha"`
	State  TravelerState `json:"state"`
}

// WaveView is a wave as seen in a snapshot.
type WaveView struct {
	Index     int    `json:"index"`
	Tag       string `json:"tag"`
	Origin    int64  `json:"origin"`
	Visited   int    `json:"visited"`
	Reachable int    `json:"reachable"` // nodes reachable from the origin this frame, origin included
	Travelers int    `json:"travelers"`
	Retiring  bool   `json:"retiring"`
}

// Snapshot is the state of one frame.
type Snapshot struct {
	RunID     string         `json:"run_id"`
	Frame     int            `json:"frame"`
	Elapsed   time.Duration  `json:"elapsed"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Cutoff    float64        `json:"cutoff"`
	Points    []PointView    `json:"points"`
	Edges     []EdgeView     `json:"edges"`
	Travelers []TravelerView `json:"travelers"`
	Waves     []WaveView     `json:"waves"`
	CreatedAt time.Time      `json:"created_at"`
}
