package traveler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

type positions map[int64]r2.Vec

func (p positions) Position(id int64) (r2.Vec, bool) {
	v, ok := p[id]
	return v, ok
}

var params = Params{
	Speed:      2,
	Cutoff:     120,
	StopTime:   250 * time.Millisecond,
	ShrinkTime: 100 * time.Millisecond,
}

func TestUpdate_ReachesDestination(t *testing.T) {
	src, dst := r2.Vec{}, r2.Vec{X: 10}
	tr := New(params, 0, 1, src, 2, dst)
	loc := positions{1: src, 2: dst}

	var statuses []Status
	for range 10 {
		statuses = append(statuses, tr.Update(1, loc))
	}
	// Positions 0,2,4,6 are active; at 8 the remaining distance is 2.
	assert.Equal(t, []Status{Active, Active, Active, Active, Complete, Stopping, Stopping, Stopping, Stopping, Stopping}, statuses)
	id, ok := tr.Dest()
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.True(t, tr.Done())
	assert.Equal(t, dst, tr.Body().Pos, "snaps to destination once terminal")
	assert.Equal(t, Stopping, tr.Last())
}

func TestUpdate_FadesOnCompletion(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{}, 2, r2.Vec{X: 1})
	require.Equal(t, Complete, tr.Update(1, nil))
	b := tr.Body()
	assert.False(t, b.Settled())
	b.Advance(250 * time.Millisecond)
	assert.Equal(t, 0.0, b.Alpha)
	assert.Equal(t, float64(DefaultRadius), b.Radius)
}

func TestUpdate_MonotonicProgress(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{}, 2, r2.Vec{X: 100, Y: 50})
	prev := tr.Traveled()
	for i := 0; i < 200 && !tr.Done(); i++ {
		scale := 0.5 + float64(i%3)
		tr.Update(scale, nil)
		assert.GreaterOrEqual(t, tr.Traveled(), prev)
		prev = tr.Traveled()
	}
	assert.True(t, tr.Done())
}

func TestUpdate_TimeScale(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{}, 2, r2.Vec{X: 100})
	tr.Update(2, nil)
	assert.Equal(t, 4.0, tr.Traveled())
	tr.Update(2, nil)
	assert.Equal(t, r2.Vec{X: 4}, tr.Body().Pos)
}

func TestUpdate_TruncatedByDrift(t *testing.T) {
	src, dst := r2.Vec{}, r2.Vec{X: 100}
	tr := New(params, 3, 1, src, 2, dst)
	loc := positions{1: src, 2: dst}
	require.Equal(t, Active, tr.Update(1, loc))

	loc[2] = r2.Vec{X: 130} // edge now longer than the cutoff
	assert.Equal(t, Complete, tr.Update(1, loc))
	_, ok := tr.Dest()
	assert.False(t, ok)
	assert.True(t, tr.Done())

	assert.Equal(t, Stopping, tr.Update(1, loc))
	assert.Equal(t, r2.Vec{X: 2}, tr.Body().Pos, "truncated traveler holds its interpolated position")
	assert.Equal(t, Stopping, tr.Update(1, loc))
	assert.Equal(t, r2.Vec{X: 2}, tr.Body().Pos)
	assert.Equal(t, 2.0, tr.Traveled())
	tr.Body().Advance(100 * time.Millisecond)
	assert.Equal(t, 0.0, tr.Body().Radius)
	assert.Equal(t, 3, tr.Wave)
}

func TestUpdate_TruncatedAtCreation(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{}, 2, r2.Vec{X: 200})
	assert.Equal(t, Complete, tr.Update(1, nil))
	_, ok := tr.Dest()
	assert.False(t, ok)
}

func TestUpdate_UnknownNodesUseFixedEndpoints(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{}, 2, r2.Vec{X: 100})
	assert.Equal(t, Active, tr.Update(1, positions{}))
}

func TestUpdate_ZeroLengthPath(t *testing.T) {
	tr := New(params, 0, 1, r2.Vec{X: 5}, 2, r2.Vec{X: 5})
	assert.Equal(t, Complete, tr.Update(1, nil))
	assert.Equal(t, Stopping, tr.Update(1, nil))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "stopping", Stopping.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
