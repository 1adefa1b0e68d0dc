package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestParseClick(t *testing.T) {
	for _, x := range []struct {
		in    string
		frame int
		pos   r2.Vec
	}{
		{"10,20", 0, r2.Vec{X: 10, Y: 20}},
		{"30:1.5, 2", 30, r2.Vec{X: 1.5, Y: 2}},
	} {
		frame, pos, err := parseClick(x.in)
		require.NoError(t, err, x.in)
		assert.Equal(t, x.frame, frame)
		assert.Equal(t, x.pos, pos)
	}
	for _, bad := range []string{"", "10", "a:1,2", "-1:1,2", "1,b"} {
		_, _, err := parseClick(bad)
		assert.Error(t, err, bad)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	snapshot, metrics := filepath.Join(dir, "snapshot.json"), filepath.Join(dir, "metrics.txt")
	out := execute(t, "run", "-i", "testdata/triangle.csv", "--motion", "static", "--cutoff", "120",
		"-n", "5", "--click", "2:1,1", "--until-idle", "--snapshot", snapshot, "--metrics", metrics)
	assert.Contains(t, out, "points=3 edges=3 waves=0 travelers=0")

	b, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"cutoff": 120`)

	b, err = os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(b), "wavegraph_waves_started_total 1")
	assert.Contains(t, string(b), "wavegraph_travelers_spawned_total 2")
	assert.Contains(t, string(b), `wavegraph_travelers_completed_total{outcome="arrived"} 2`)
}

func TestSchedule_FPS(t *testing.T) {
	d := newDriver(config.Default(), logr.Discard())
	for _, fps := range []float64{0, -30, math.NaN(), math.Inf(1)} {
		s := script{fps: fps}
		assert.ErrorContains(t, s.schedule(d), "invalid --fps", "%v", fps)
	}
	s := script{fps: 30, clicks: []string{"1:5,5"}}
	require.NoError(t, s.schedule(d))
	assert.Equal(t, time.Second/30, s.frame())
}

func TestRender(t *testing.T) {
	out := execute(t, "render", "ascii", "-i", "testdata/triangle.csv", "--motion", "static", "--cutoff", "120",
		"--columns", "24", "--rows", "6", "--timestamp=false")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "+----------------------+", lines[0])
	assert.Contains(t, out, "o")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, version+"\n", execute(t, "version"))
}
