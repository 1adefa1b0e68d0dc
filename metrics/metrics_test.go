package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/graph"
	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/sched"
	"github.com/TFMV/wavegraph/traveler"
	"github.com/TFMV/wavegraph/wave"
)

type points []models.Point

func (p points) Position(id int64) (r2.Vec, bool) { return models.Locate(p, id) }

func TestObserver(t *testing.T) {
	pts := points{models.NewPoint(0, 0, 0), models.NewPoint(1, 10, 0), models.NewPoint(2, 500, 500)}
	g := graph.NewProximity()
	g.Update(pts, 50)
	var q sched.Queue
	m := New()
	c := wave.New(wave.Config{Traveler: traveler.Params{Speed: 20, Cutoff: 50}}, g, pts, &q, wave.WithObserver(m))

	c.StartWave(2) // isolated: retires at once
	c.StartWave(0)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Waves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Spawned))

	for _, tr := range c.Travelers() {
		require.Equal(t, traveler.Complete, tr.Update(1, pts))
		c.OnTravelerComplete(tr)
	}
	q.Poll(time.Second)
	m.Frame(len(c.Travelers()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completed.WithLabelValues("arrived")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Completed.WithLabelValues("truncated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Retired))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Travelers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames))

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	var visited *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == "wavegraph_wave_visited_nodes" {
			visited = mf
		}
	}
	require.NotNil(t, visited)
	h := visited.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), h.GetSampleCount())
	assert.Equal(t, 3.0, h.GetSampleSum()) // 1 + 2
}

func TestWriteText(t *testing.T) {
	m := New()
	m.Frame(3)
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "wavegraph_frames_total 1")
	assert.Contains(t, buf.String(), "wavegraph_travelers_active 3")

	file := filepath.Join(t.TempDir(), "metrics.txt")
	require.NoError(t, m.WriteFile(file))
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(b))
}
