package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/graph"
	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/sched"
	"github.com/TFMV/wavegraph/traveler"
)

const frame = time.Second / 60

// recorder keeps every event for assertions.
type recorder struct {
	started   []string
	spawns    map[string][]int64
	arrived   map[string][]int64
	truncated map[string]int
	retiring  []string
	retired   []string
}

func newRecorder() *recorder {
	return &recorder{spawns: map[string][]int64{}, arrived: map[string][]int64{}, truncated: map[string]int{}}
}

func (r *recorder) WaveStarted(w *Wave) { r.started = append(r.started, w.Tag) }
func (r *recorder) TravelerSpawned(w *Wave, t *traveler.Traveler) {
	id, _ := t.Dest()
	r.spawns[w.Tag] = append(r.spawns[w.Tag], id)
}
func (r *recorder) TravelerCompleted(w *Wave, t *traveler.Traveler) {
	if id, ok := t.Dest(); ok {
		r.arrived[w.Tag] = append(r.arrived[w.Tag], id)
	} else {
		r.truncated[w.Tag]++
	}
}
func (r *recorder) WaveRetiring(w *Wave) { r.retiring = append(r.retiring, w.Tag) }
func (r *recorder) WaveRetired(w *Wave)  { r.retired = append(r.retired, w.Tag) }

// harness drives a coordinator the way the frame loop does.
type harness struct {
	t      *testing.T
	points []models.Point
	cutoff float64
	g      *graph.Proximity
	q      sched.Queue
	rec    *recorder
	c      *Coordinator
	now    time.Duration
}

func newHarness(t *testing.T, cutoff float64, xy ...float64) *harness {
	h := &harness{t: t, cutoff: cutoff, g: graph.NewProximity(), rec: newRecorder()}
	for i := 0; i < len(xy); i += 2 {
		h.points = append(h.points, models.NewPoint(int64(i/2), xy[i], xy[i+1]))
	}
	h.g.Update(h.points, cutoff)
	cfg := Config{
		Traveler: traveler.Params{
			Speed:      2,
			Cutoff:     cutoff,
			StopTime:   250 * time.Millisecond,
			ShrinkTime: 100 * time.Millisecond,
		},
		RemoveDelay: 250 * time.Millisecond,
	}
	h.c = New(cfg, h.g, h, &h.q, WithObserver(h.rec))
	return h
}

func (h *harness) Position(id int64) (r2.Vec, bool) { return models.Locate(h.points, id) }

func (h *harness) step() {
	h.g.Update(h.points, h.cutoff)
	for _, tr := range h.c.Travelers() {
		if tr.Update(1, h) == traveler.Complete {
			h.c.OnTravelerComplete(tr)
		}
	}
	h.now += frame
	h.q.Poll(h.now)
	require.NoError(h.t, h.c.Check())
}

// settle steps until there are no waves left.
func (h *harness) settle(maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		if len(h.c.Waves()) == 0 && len(h.c.Travelers()) == 0 {
			return i
		}
		h.step()
	}
	h.t.Fatalf("not settled after %d frames: %d waves, %d travelers", maxFrames, len(h.c.Waves()), len(h.c.Travelers()))
	return maxFrames
}

func TestStartWave_Triangle(t *testing.T) {
	h := newHarness(t, 120, 0, 0, 100, 0, 110, 0)
	w := h.c.StartWave(0)
	assert.Equal(t, []int64{0, 1, 2}, w.VisitedIDs())
	assert.Equal(t, 2, w.Travelers())
	assert.Equal(t, 0, h.c.Index(w))

	h.settle(200)
	assert.Equal(t, 3, w.VisitedCount())
	assert.Equal(t, 2, w.Spawned())
	assert.ElementsMatch(t, []int64{1, 2}, h.rec.spawns[w.Tag])
	assert.ElementsMatch(t, []int64{1, 2}, h.rec.arrived[w.Tag])
	assert.Equal(t, []string{w.Tag}, h.rec.retiring)
	assert.Equal(t, []string{w.Tag}, h.rec.retired)
	assert.Empty(t, h.c.Travelers())
	assert.Equal(t, -1, h.c.Index(w))
}

func TestStartWave_Isolated(t *testing.T) {
	h := newHarness(t, 50, 0, 0, 500, 500)
	w := h.c.StartWave(0)
	assert.Equal(t, 1, w.VisitedCount())
	assert.Equal(t, 0, w.Spawned())
	assert.True(t, w.Retiring())
	assert.Empty(t, h.c.Waves(), "empty wave must not leak a slot")
	assert.Equal(t, []string{w.Tag}, h.rec.retired)
}

func TestStartWave_UnknownNode(t *testing.T) {
	h := newHarness(t, 50, 0, 0, 10, 0)
	w := h.c.StartWave(99)
	assert.Equal(t, 0, w.Spawned())
	assert.Empty(t, h.c.Waves())
	assert.Empty(t, h.c.Travelers())
}

func TestPropagate_Chain(t *testing.T) {
	// A-B-C-D spaced 50 apart, cutoff 60: only neighbors are connected.
	h := newHarness(t, 60, 0, 0, 50, 0, 100, 0, 150, 0)
	w := h.c.StartWave(0)
	assert.Equal(t, []int64{1}, h.rec.spawns[w.Tag])
	h.settle(500)
	assert.Equal(t, []int64{0, 1, 2, 3}, w.VisitedIDs())
	assert.Equal(t, []int64{1, 2, 3}, h.rec.spawns[w.Tag])
	assert.Equal(t, []int64{1, 2, 3}, h.rec.arrived[w.Tag])
	assert.Equal(t, []string{w.Tag}, h.rec.retired)
}

func TestPropagate_StaysInCluster(t *testing.T) {
	h := newHarness(t, 60,
		0, 0, 40, 0, 20, 30, // cluster 1: ids 0,1,2
		1000, 0, 1040, 0, 1020, 30) // cluster 2: ids 3,4,5
	w := h.c.StartWave(1)
	h.settle(500)
	assert.Equal(t, []int64{0, 1, 2}, w.VisitedIDs())
	for _, id := range h.rec.spawns[w.Tag] {
		assert.Less(t, id, int64(3))
	}
}

func TestPropagate_VisitedOnce(t *testing.T) {
	// A 3x3 grid spaced 40 apart; cutoff 60 connects orthogonal and diagonal
	// neighbors, so many travelers converge on the same nodes.
	var xy []float64
	for y := range 3 {
		for x := range 3 {
			xy = append(xy, float64(x*40), float64(y*40))
		}
	}
	h := newHarness(t, 60, xy...)
	w1 := h.c.StartWave(0)
	h.step()
	w2 := h.c.StartWave(8)
	h.settle(1000)
	for _, w := range []*Wave{w1, w2} {
		seen := map[int64]bool{}
		for _, id := range h.rec.spawns[w.Tag] {
			assert.False(t, seen[id], "wave %s spawned toward %d twice", w.Tag, id)
			seen[id] = true
		}
		assert.Len(t, seen, 8)
		assert.Equal(t, 9, w.VisitedCount())
	}
	assert.ElementsMatch(t, []string{w1.Tag, w2.Tag}, h.rec.retired)
}

func TestRetire_CompactsIndices(t *testing.T) {
	// Wave 0 on a long chain, wave 1 on a short pair, wave 2 on another long chain.
	h := newHarness(t, 60,
		0, 0, 50, 0, 100, 0, 150, 0, 200, 0, // ids 0-4
		0, 500, 50, 500, // ids 5-6
		0, 1000, 50, 1000, 100, 1000, 150, 1000, 200, 1000) // ids 7-11
	long1 := h.c.StartWave(0)
	short := h.c.StartWave(5)
	long2 := h.c.StartWave(7)
	require.Equal(t, []*Wave{long1, short, long2}, h.c.Waves())

	for h.c.Index(short) >= 0 {
		h.step()
	}
	assert.Equal(t, []*Wave{long1, long2}, h.c.Waves())
	assert.Equal(t, 1, h.c.Index(long2))
	for _, tr := range h.c.Travelers() {
		id, _ := tr.Dest()
		if id >= 7 {
			assert.Equal(t, 1, tr.Wave)
		} else {
			assert.Equal(t, 0, tr.Wave)
		}
	}
	h.settle(1000)
	assert.Equal(t, []int64{7, 8, 9, 10, 11}, long2.VisitedIDs())
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, long1.VisitedIDs())
}

func TestTruncated_DoesNotPropagate(t *testing.T) {
	h := newHarness(t, 60, 0, 0, 50, 0, 100, 0)
	w := h.c.StartWave(0)
	h.step()
	// B drifts away mid-flight; the A-B edge evaporates.
	h.points[1].Pos = r2.Vec{X: 50, Y: 500}
	h.step()
	assert.Equal(t, 1, h.rec.truncated[w.Tag])
	assert.Empty(t, h.rec.arrived[w.Tag])
	assert.Equal(t, []int64{1}, h.rec.spawns[w.Tag], "nothing spawned from a truncated destination")

	h.settle(100)
	assert.Equal(t, []int64{0, 1}, w.VisitedIDs())
	assert.Equal(t, []string{w.Tag}, h.rec.retired, "wave of truncated travelers still retires")
}

func TestRemove_Unknown(t *testing.T) {
	h := newHarness(t, 60, 0, 0, 50, 0)
	tr := traveler.New(traveler.Params{Speed: 1, Cutoff: 60}, 0, 0, r2.Vec{}, 1, r2.Vec{X: 50})
	assert.False(t, h.c.Remove(tr))
}

func TestPropagate_UnknownWave(t *testing.T) {
	h := newHarness(t, 60, 0, 0, 50, 0)
	h.c.Propagate(0, 3)
	assert.Empty(t, h.c.Travelers())
	assert.Nil(t, h.c.Wave(-1))
}

func TestTravelerCompletion_RemovedAfterDelay(t *testing.T) {
	h := newHarness(t, 60, 0, 0, 4, 0)
	w := h.c.StartWave(0)
	tr := h.c.Travelers()[0]
	h.step() // pos 0, remaining 4
	h.step() // pos 2, remaining 2: complete
	require.True(t, tr.Done())
	assert.Len(t, h.c.Travelers(), 1)
	for range 14 {
		h.step()
	}
	assert.Len(t, h.c.Travelers(), 1, "still fading")
	h.settle(10)
	assert.Equal(t, []string{w.Tag}, h.rec.retired)
}
