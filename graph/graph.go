// Package graph derives the proximity graph of the drifting points.
//
// The graph is rebuilt from scratch every frame. Each direction of a
// connection is stored as its own edge so the relation may be asymmetric when
// two points sit exactly at the cutoff distance; callers must tolerate that.
// Update performs O(n²) distance checks, which is fine for tens of points.
package graph

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/models"
)

// Edge is an undirected connection between two points.
type Edge struct {
	From, To int64
	Distance float64
	Weight   float64 // (cutoff-distance)/cutoff
}

// Proximity is the proximity graph for a single frame.
type Proximity struct {
	g      *simple.DirectedGraph
	conns  map[int64][]int64
	edges  []Edge
	cutoff float64
}

// NewProximity creates an empty proximity graph.
func NewProximity() *Proximity {
	return &Proximity{
		g:     simple.NewDirectedGraph(),
		conns: make(map[int64][]int64),
	}
}

// Update recomputes the graph from the current point positions.
// Two points are connected when their distance is strictly less than cutoff.
// All previous state is discarded.
func (p *Proximity) Update(points []models.Point, cutoff float64) {
	p.g = simple.NewDirectedGraph()
	p.conns = make(map[int64][]int64, len(points))
	p.edges = p.edges[:0]
	p.cutoff = cutoff

	for _, pt := range points {
		if p.g.Node(pt.ID) == nil {
			p.g.AddNode(simple.Node(pt.ID))
		}
	}
	for i, a := range points {
		var conns []int64
		for j, b := range points {
			if i == j || a.ID == b.ID {
				continue
			}
			d := r2.Norm(r2.Sub(a.Pos, b.Pos))
			if !(d < cutoff) { // NaN never connects
				continue
			}
			conns = append(conns, b.ID)
			p.g.SetEdge(p.g.NewEdge(simple.Node(a.ID), simple.Node(b.ID)))
			if i < j {
				p.edges = append(p.edges, Edge{From: a.ID, To: b.ID, Distance: d, Weight: (cutoff - d) / cutoff})
			}
		}
		p.conns[a.ID] = conns
	}
}

// Connections returns the neighbors of id in point order.
// It returns nil for an unknown or isolated id.
func (p *Proximity) Connections(id int64) []int64 {
	return p.conns[id]
}

// Edges returns each connected pair once, ordered by the first point.
func (p *Proximity) Edges() []Edge {
	return p.edges
}

// Cutoff returns the cutoff used by the last Update.
func (p *Proximity) Cutoff() float64 {
	return p.cutoff
}

// Len returns the number of points in the graph.
func (p *Proximity) Len() int {
	return len(p.conns)
}

// Reachable returns every node reachable from id in the current frame,
// including id itself, in breadth-first order.
func (p *Proximity) Reachable(id int64) []int64 {
	start := p.g.Node(id)
	if start == nil {
		return nil
	}
	var out []int64
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { out = append(out, n.ID()) },
	}
	bf.Walk(p.g, start, nil)
	return out
}
