package graph

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/models"
)

// pivotSamples matches the sample count gonum uses for its own Points type.
const pivotSamples = 100

// site is a point stored in the k-d tree, keeping its id alongside the
// coordinates.
type site struct {
	id  int64
	pos r2.Vec
}

func (s site) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return s.pos.X
	}
	return s.pos.Y
}

// Compare implements kdtree.Comparable.
func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord(d) - c.(site).coord(d)
}

// Dims implements kdtree.Comparable.
func (site) Dims() int { return 2 }

// Distance implements kdtree.Comparable, returning the squared distance.
func (s site) Distance(c kdtree.Comparable) float64 {
	return r2.Norm2(r2.Sub(s.pos, c.(site).pos))
}

// sites implements kdtree.Interface.
type sites []site

func (s sites) Index(i int) kdtree.Comparable { return s[i] }
func (s sites) Len() int                       { return len(s) }
func (s sites) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}
func (s sites) Pivot(d kdtree.Dim) int {
	p := plane{sites: s, dim: d}
	return kdtree.Partition(p, kdtree.MedianOfRandoms(p, pivotSamples))
}

// plane sorts sites along one dimension for pivoting.
type plane struct {
	sites
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.sites[i].coord(p.dim) < p.sites[j].coord(p.dim) }
func (p plane) Swap(i, j int)      { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

// Nearest returns the id of the point closest to pos.
// It returns false when there are no points.
func Nearest(points []models.Point, pos r2.Vec) (int64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	s := make(sites, len(points))
	for i, p := range points {
		s[i] = site{id: p.ID, pos: p.Pos}
	}
	tree := kdtree.New(s, false)
	got, _ := tree.Nearest(site{pos: pos})
	if got == nil {
		return 0, false
	}
	return got.(site).id, true
}
