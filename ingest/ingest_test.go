package ingest

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/wavegraph/models"
)

func TestLoadFile(t *testing.T) {
	for _, x := range []struct {
		file string
		want []models.Point
	}{
		{"testdata/points.json", []models.Point{models.NewPoint(0, 1, 2), models.NewPoint(1, 3, 4), models.NewPoint(2, 0, 0)}},
		{"testdata/points.csv", []models.Point{models.NewPoint(0, 10, 20), models.NewPoint(1, 30.5, 40)}},
		{"testdata/points.txt", []models.Point{models.NewPoint(0, 1, 1), models.NewPoint(1, 2, 3)}},
	} {
		t.Run(x.file, func(t *testing.T) {
			got, err := LoadFile(x.file)
			require.NoError(t, err)
			assert.Equal(t, x.want, got)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("testdata/points.xml")
	assert.ErrorContains(t, err, "unsupported format: xml")
	_, err = LoadFile("testdata/missing.json")
	assert.Error(t, err)
}

func TestCSV_NoHeader(t *testing.T) {
	got, err := CSVProcessor{}.ProcessData([]byte("1,2\n3, 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.Point{models.NewPoint(0, 1, 2), models.NewPoint(1, 3, 4)}, got)
}

func TestProcessData_Errors(t *testing.T) {
	for _, x := range []struct {
		format, data, want string
	}{
		{"csv", "a,b\n1,2\n", "x and y columns"},
		{"csv", "1,2\n3,oops\n", "CSV line 2"},
		{"csv", "1,2\n3\n", "got 1 fields"},
		{"json", `{"points":[{"x":1}]}`, "point 0"},
		{"json", `{"points":`, "error parsing JSON"},
		{"txt", "1 2\nfoo\n", "line 2"},
		{"txt", "0 0\n5000 5000\nNaN 3\n", "line 3: coordinate NaN is not finite"},
		{"txt", "1 -Inf\n", "not finite"},
		{"csv", "x,y\n1,2\ninf,2\n", "CSV line 3: coordinate +Inf is not finite"},
	} {
		p, err := GetProcessor(x.format)
		require.NoError(t, err)
		_, err = p.ProcessData([]byte(x.data))
		assert.ErrorContains(t, err, x.want, "%s %q", x.format, x.data)
	}
}

func TestGenerate(t *testing.T) {
	b := models.Bounds{Width: 800, Height: 600}
	pts := Generate(50, b, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, pts, 50)
	for i, p := range pts {
		assert.Equal(t, int64(i), p.ID)
		assert.True(t, p.Pos.X >= 0 && p.Pos.X < b.Width)
		assert.True(t, p.Pos.Y >= 0 && p.Pos.Y < b.Height)
	}
	assert.Equal(t, pts, Generate(50, b, rand.New(rand.NewPCG(1, 2))))
}
