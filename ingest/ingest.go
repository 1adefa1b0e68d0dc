// Package ingest loads the initial points of a run.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TFMV/wavegraph/models"
)

// DataProcessor defines the interface that all point loaders must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns points with ids in input order
	ProcessData(data []byte) ([]models.Point, error)

	// GetName returns the name of the processor
	GetName() string
}

// JSONProcessor handles JSON data of the form {"points":[{"x":1,"y":2}]}
type JSONProcessor struct{}

// GetName returns the name of the processor
func (JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (JSONProcessor) ProcessData(data []byte) ([]models.Point, error) {
	var doc struct {
		Points []struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		} `json:"points"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	points := make([]models.Point, 0, len(doc.Points))
	for i, p := range doc.Points {
		if p.X == nil || p.Y == nil {
			return nil, fmt.Errorf("point %d: missing x or y", i)
		}
		if err := finite(*p.X, *p.Y); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, models.NewPoint(int64(i), *p.X, *p.Y))
	}
	return points, nil
}

// CSVProcessor handles CSV data. Columns named x and y are used if a header
// row is present, otherwise the first two columns.
type CSVProcessor struct{}

// GetName returns the name of the processor
func (CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (CSVProcessor) ProcessData(data []byte) ([]models.Point, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	xIdx, yIdx := 0, 1
	var points []models.Point
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		if line == 1 && isHeader(row) {
			xIdx, yIdx = -1, -1
			for i, col := range row {
				switch strings.ToLower(strings.TrimSpace(col)) {
				case "x":
					xIdx = i
				case "y":
					yIdx = i
				}
			}
			if xIdx == -1 || yIdx == -1 {
				return nil, errors.New("CSV header must contain x and y columns")
			}
			continue
		}
		p, err := parseXY(row, xIdx, yIdx, int64(len(points)))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// TextProcessor handles plain text with one "x y" pair per line.
// Blank lines and lines starting with # are skipped.
type TextProcessor struct{}

// GetName returns the name of the processor
func (TextProcessor) GetName() string {
	return "Text Processor"
}

// ProcessData processes text data
func (TextProcessor) ProcessData(data []byte) ([]models.Point, error) {
	var points []models.Point
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := parseXY(strings.Fields(text), 0, 1, int64(len(points)))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text: %w", err)
	}
	return points, nil
}

func isHeader(row []string) bool {
	for _, col := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(col), 64); err != nil {
			return true
		}
	}
	return false
}

func parseXY(row []string, xIdx, yIdx int, id int64) (models.Point, error) {
	if xIdx >= len(row) || yIdx >= len(row) {
		return models.Point{}, fmt.Errorf("expected x and y, got %d fields", len(row))
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(row[xIdx]), 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(row[yIdx]), 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("bad y: %w", err)
	}
	if err := finite(x, y); err != nil {
		return models.Point{}, err
	}
	return models.NewPoint(id, x, y), nil
}

// finite rejects NaN and infinite coordinates, which have no distance to
// anything.
func finite(x, y float64) error {
	for _, v := range []float64{x, y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("coordinate %v is not finite", v)
		}
	}
	return nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONProcessor{}, nil
	case "csv":
		return CSVProcessor{}, nil
	case "txt", "text":
		return TextProcessor{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// LoadFile reads points from file, choosing the processor by extension.
func LoadFile(file string) ([]models.Point, error) {
	p, err := GetProcessor(strings.TrimPrefix(filepath.Ext(file), "."))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	points, err := p.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return points, nil
}

// Generate returns n points placed uniformly at random on the canvas.
func Generate(n int, b models.Bounds, rng *rand.Rand) []models.Point {
	points := make([]models.Point, n)
	for i := range points {
		points[i] = models.NewPoint(int64(i), rng.Float64()*b.Width, rng.Float64()*b.Height)
	}
	return points
}
