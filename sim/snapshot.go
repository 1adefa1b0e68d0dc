package sim

import (
	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/traveler"
)

var states = map[traveler.Status]models.TravelerState{
	traveler.Active:   models.TravelerActive,
	traveler.Complete: models.TravelerComplete,
	traveler.Stopping: models.TravelerStopping,
}

// Snapshot captures the current frame for rendering.
func (d *Driver) Snapshot() *models.Snapshot {
	s := models.NewSnapshot(d.runID, d.frame, d.elapsed, d.bounds, d.cfg.Cutoff)
	for _, p := range d.points {
		s.AddPoint(p)
	}
	for _, e := range d.graph.Edges() {
		s.Edges = append(s.Edges, models.EdgeView{From: e.From, To: e.To, Weight: e.Weight})
	}
	for _, t := range d.coord.Travelers() {
		b := t.Body()
		v := models.TravelerView{
			Wave:   t.Wave,
			From:   t.From(),
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			Radius: b.Radius,
			Alpha:  b.Alpha,
			State:  states[t.Last()],
		}
		if id, ok := t.Dest(); ok {
			v.To = &id
		}
		s.Travelers = append(s.Travelers, v)
	}
	for i, w := range d.coord.Waves() {
		s.Waves = append(s.Waves, models.WaveView{
			Index:     i,
			Tag:       w.Tag,
			Origin:    w.Origin,
			Visited:   w.VisitedCount(),
			Reachable: len(d.graph.Reachable(w.Origin)),
			Travelers: w.Travelers(),
			Retiring:  w.Retiring(),
		})
	}
	return s
}
