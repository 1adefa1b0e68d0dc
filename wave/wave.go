// Package wave coordinates the propagation of click-triggered waves across
// the proximity graph.
//
// Each wave owns a visited set. A node is claimed when a traveler toward it
// is spawned, not when the traveler arrives, so a wave never sends two
// travelers to the same node. Waves live in a dense slice and travelers refer
// to them by index; when a wave retires it is compacted out and every higher
// index held by a traveler is decremented.
package wave

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-logr/logr"

	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/traveler"
)

// Graph is the adjacency the coordinator spawns along.
type Graph interface {
	Connections(id int64) []int64
}

// Deferrer runs fn after a delay, from inside the frame loop.
type Deferrer interface {
	After(d time.Duration, fn func())
}

// Wave is one click-triggered propagation.
type Wave struct {
	Tag    string
	Origin int64

	visited   map[int64]struct{}
	travelers int
	spawned   int
	retiring  bool
}

func newWave(origin int64) *Wave {
	return &Wave{
		Tag:     models.NewWaveTag(),
		Origin:  origin,
		visited: make(map[int64]struct{}),
	}
}

// Visited reports whether id has been claimed by this wave.
func (w *Wave) Visited(id int64) bool {
	_, ok := w.visited[id]
	return ok
}

// VisitedCount returns the size of the visited set.
func (w *Wave) VisitedCount() int { return len(w.visited) }

// VisitedIDs returns the visited set in ascending order.
func (w *Wave) VisitedIDs() []int64 {
	ids := make([]int64, 0, len(w.visited))
	for id := range w.visited {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Travelers returns the number of live travelers attributed to the wave.
func (w *Wave) Travelers() int { return w.travelers }

// Spawned returns the total number of travelers the wave has spawned.
func (w *Wave) Spawned() int { return w.spawned }

// Retiring reports whether the wave has run out of frontier.
func (w *Wave) Retiring() bool { return w.retiring }

func (w *Wave) visit(id int64) { w.visited[id] = struct{}{} }

// Config holds the fixed settings of a coordinator.
type Config struct {
	Traveler    traveler.Params
	RemoveDelay time.Duration // time a finished traveler lingers before removal
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithObserver adds an observer of wave events.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.obs = append(c.obs, o) }
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator owns the waves and their travelers.
// It is not safe for concurrent use; all calls happen inside the frame tick.
type Coordinator struct {
	cfg       Config
	graph     Graph
	loc       traveler.Locator
	deferrer  Deferrer
	obs       observers
	log       logr.Logger
	waves     []*Wave
	travelers []*traveler.Traveler
}

// New creates a coordinator spawning along g, locating nodes with loc and
// deferring traveler removal with d.
func New(cfg Config, g Graph, loc traveler.Locator, d Deferrer, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		graph:    g,
		loc:      loc,
		deferrer: d,
		log:      logr.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StartWave starts a new wave at nodeID and spawns travelers to its
// neighbors. A wave that cannot spawn anything is retired before StartWave
// returns.
func (c *Coordinator) StartWave(nodeID int64) *Wave {
	w := newWave(nodeID)
	c.waves = append(c.waves, w)
	idx := len(c.waves) - 1
	w.visit(nodeID)
	c.log.V(1).Info("wave started", "wave", w.Tag, "index", idx, "origin", nodeID)
	c.obs.WaveStarted(w)

	c.spawnFrom(nodeID, idx)
	if w.travelers == 0 {
		c.retire(idx)
	}
	return w
}

// OnTravelerComplete handles a traveler that reported traveler.Complete.
// If it reached its destination the wave propagates from there. The
// traveler is removed after the configured delay.
func (c *Coordinator) OnTravelerComplete(t *traveler.Traveler) {
	w := c.Wave(t.Wave)
	if id, ok := t.Dest(); ok {
		c.log.V(2).Info("traveler arrived", "wave", tagOf(w), "from", t.From(), "to", id)
		c.Propagate(id, t.Wave)
	} else {
		c.log.V(2).Info("traveler truncated", "wave", tagOf(w), "from", t.From())
	}
	if w != nil {
		c.obs.TravelerCompleted(w, t)
	}
	c.deferrer.After(c.cfg.RemoveDelay, func() { c.Remove(t) })
}

// Propagate spawns travelers from nodeID to its unvisited neighbors, unless
// no traveler of the wave still has a destination with unvisited neighbors,
// in which case the wave is queued for retirement instead.
func (c *Coordinator) Propagate(nodeID int64, idx int) {
	w := c.Wave(idx)
	if w == nil {
		return
	}
	complete, count := true, 0
	for _, t := range c.travelers {
		if t.Wave != idx {
			continue
		}
		count++
		if id, ok := t.Dest(); ok && c.hasFrontier(id, w) {
			complete = false
			break
		}
	}
	if complete && count > 0 {
		if !w.retiring {
			w.retiring = true
			c.log.V(1).Info("wave exhausted", "wave", w.Tag, "index", idx, "visited", len(w.visited))
			c.obs.WaveRetiring(w)
		}
		return
	}
	c.spawnFrom(nodeID, idx)
}

// Remove destroys a traveler. When it was the last traveler of its wave the
// wave is retired. It returns false if t is unknown.
func (c *Coordinator) Remove(t *traveler.Traveler) bool {
	i := slices.Index(c.travelers, t)
	if i < 0 {
		return false
	}
	c.travelers = slices.Delete(c.travelers, i, i+1)
	w := c.Wave(t.Wave)
	if w == nil {
		return true
	}
	w.travelers--
	if w.travelers == 0 {
		c.retire(t.Wave)
	}
	return true
}

// Travelers returns a copy of the live travelers in spawn order.
func (c *Coordinator) Travelers() []*traveler.Traveler {
	return slices.Clone(c.travelers)
}

// Waves returns a copy of the live waves ordered by index.
func (c *Coordinator) Waves() []*Wave {
	return slices.Clone(c.waves)
}

// Wave returns the wave at idx, nil if out of range.
func (c *Coordinator) Wave(idx int) *Wave {
	if idx < 0 || idx >= len(c.waves) {
		return nil
	}
	return c.waves[idx]
}

// Index returns the current index of w, -1 once it has retired.
func (c *Coordinator) Index(w *Wave) int {
	return slices.Index(c.waves, w)
}

// Check verifies that wave indices are dense and traveler counts agree.
func (c *Coordinator) Check() error {
	counts := make([]int, len(c.waves))
	for _, t := range c.travelers {
		if t.Wave < 0 || t.Wave >= len(c.waves) {
			return fmt.Errorf("traveler %d->%v refers to wave %d of %d", t.From(), destString(t), t.Wave, len(c.waves))
		}
		counts[t.Wave]++
	}
	for i, w := range c.waves {
		if w.travelers != counts[i] {
			return fmt.Errorf("wave %d (%s) counts %d travelers, found %d", i, w.Tag, w.travelers, counts[i])
		}
	}
	return nil
}

// hasFrontier reports whether id has a neighbor the wave has not claimed.
func (c *Coordinator) hasFrontier(id int64, w *Wave) bool {
	for _, n := range c.graph.Connections(id) {
		if n != id && !w.Visited(n) {
			return true
		}
	}
	return false
}

// spawnFrom sends a traveler from nodeID to each unclaimed neighbor.
func (c *Coordinator) spawnFrom(nodeID int64, idx int) int {
	w := c.waves[idx]
	src, ok := c.loc.Position(nodeID)
	if !ok {
		return 0
	}
	n := 0
	for _, id := range c.graph.Connections(nodeID) {
		if id == nodeID || w.Visited(id) {
			continue
		}
		dst, ok := c.loc.Position(id)
		if !ok {
			continue
		}
		w.visit(id)
		t := traveler.New(c.cfg.Traveler, idx, nodeID, src, id, dst)
		c.travelers = append(c.travelers, t)
		w.travelers++
		w.spawned++
		n++
		c.log.V(2).Info("traveler spawned", "wave", w.Tag, "from", nodeID, "to", id)
		c.obs.TravelerSpawned(w, t)
	}
	return n
}

// retire compacts the wave at idx out of the collection.
func (c *Coordinator) retire(idx int) {
	w := c.waves[idx]
	if !w.retiring {
		w.retiring = true
		c.obs.WaveRetiring(w)
	}
	c.waves = slices.Delete(c.waves, idx, idx+1)
	for _, t := range c.travelers {
		if t.Wave > idx {
			t.Wave--
		}
	}
	c.log.V(1).Info("wave retired", "wave", w.Tag, "index", idx, "visited", len(w.visited), "spawned", w.spawned)
	c.obs.WaveRetired(w)
}

func tagOf(w *Wave) string {
	if w == nil {
		return ""
	}
	return w.Tag
}

func destString(t *traveler.Traveler) string {
	if id, ok := t.Dest(); ok {
		return fmt.Sprint(id)
	}
	return "nil"
}
