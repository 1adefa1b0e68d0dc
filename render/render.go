// Package render turns frame snapshots into static output formats.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/wavegraph/models"
)

// EdgeAlpha is the opacity of an edge of weight 1.
const EdgeAlpha = 0.3

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format      string  // Output format (svg, ascii, json, dot)
	Scale       float64 // Output units per canvas unit (svg)
	Columns     int     // Grid width (ascii)
	Rows        int     // Grid height (ascii)
	EdgeWidth   float64 // Stroke width of an edge of weight 1
	FontSize    float64 // Font size for labels
	ShowLabels  bool    // Show point ids
	Timestamp   bool    // Include the snapshot time
	ColorScheme string  // Color scheme (default, dark)
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the snapshot using the provided options
	Render(s *models.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:      format,
		Scale:       1,
		Columns:     80,
		Rows:        30,
		EdgeWidth:   1,
		FontSize:    10,
		ShowLabels:  false,
		Timestamp:   true,
		ColorScheme: "default",
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Generate renders a snapshot with default options for format
func Generate(s *models.Snapshot, format string) ([]byte, error) {
	return GenerateWithOptions(s, NewDefaultOptions(format))
}

// GenerateWithOptions renders a snapshot with specific output options
func GenerateWithOptions(s *models.Snapshot, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(s, options)
}

// Palette provides color schemes for snapshot output
type Palette struct {
	WaveColors []string // cycled by wave index
	PointColor string
	EdgeColor  string
	Background string
}

// DefaultPalette returns a light palette
func DefaultPalette() *Palette {
	return &Palette{
		WaveColors: []string{
			"#4285F4", // Blue
			"#EA4335", // Red
			"#FBBC05", // Yellow
			"#34A853", // Green
			"#673AB7", // Purple
			"#00BCD4", // Cyan
			"#FF5722", // Deep Orange
		},
		PointColor: "#333333",
		EdgeColor:  "#000000",
		Background: "#f8f8f8",
	}
}

// DarkPalette returns a palette for dark backgrounds
func DarkPalette() *Palette {
	return &Palette{
		WaveColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
			"#00B0FF", // Light Blue
		},
		PointColor: "#e0e0e0",
		EdgeColor:  "#ffffff",
		Background: "#212121",
	}
}

// GetPalette returns the palette for a color scheme, the default one if unknown
func GetPalette(scheme string) *Palette {
	if strings.ToLower(scheme) == "dark" {
		return DarkPalette()
	}
	return DefaultPalette()
}

// WaveColor returns the color of the wave at index i
func (p *Palette) WaveColor(i int) string {
	if i < 0 {
		i = -i
	}
	return p.WaveColors[i%len(p.WaveColors)]
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the frame as Scalable Vector Graphics (SVG)"
}

// Render creates an SVG representation of the snapshot
func (r *SVGRenderer) Render(s *models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	pal := GetPalette(options.ColorScheme)
	scale := options.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := s.Width*scale, s.Height*scale

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, s.Width, s.Height, pal.Background)

	points := pointIndex(s)
	buf.WriteString("<g id=\"edges\">\n")
	for _, e := range s.Edges {
		a, b := points[e.From], points[e.To]
		fmt.Fprintf(&buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-opacity="%.3f" stroke-width="%g"/>
`, a.X, a.Y, b.X, b.Y, pal.EdgeColor, e.Weight*EdgeAlpha, options.EdgeWidth)
	}
	buf.WriteString("</g>\n<g id=\"points\">\n")
	for _, p := range s.Points {
		fmt.Fprintf(&buf, `<circle cx="%g" cy="%g" r="3" fill="%s"/>
`, p.X, p.Y, pal.PointColor)
		if options.ShowLabels {
			fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle">%d</text>
`, p.X, p.Y+3+options.FontSize, options.FontSize, pal.PointColor, p.ID)
		}
	}
	buf.WriteString("</g>\n<g id=\"travelers\">\n")
	for _, t := range s.Travelers {
		if t.Radius <= 0 || t.Alpha <= 0 {
			continue
		}
		fmt.Fprintf(&buf, `<circle cx="%g" cy="%g" r="%g" fill="%s" fill-opacity="%.3f"/>
`, t.X, t.Y, t.Radius, pal.WaveColor(t.Wave), t.Alpha)
	}
	buf.WriteString("</g>\n")

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">frame %d %s</text>
`, s.Height-5, s.Frame, s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the frame as ASCII art for terminal or text-based output"
}

const (
	pointSymbol = 'o'
	edgeSymbol  = '.'
)

// waveSymbols mark travelers, cycled by wave index.
var waveSymbols = []rune{'*', '#', '@', '%', '&', '+'}

// Render creates an ASCII representation of the snapshot
func (r *ASCIIRenderer) Render(s *models.Snapshot, options *OutputOptions) ([]byte, error) {
	width := max(options.Columns, 10)
	height := max(options.Rows, 5)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0], grid[0][width-1] = '+', '+'
	grid[height-1][0], grid[height-1][width-1] = '+', '+'

	cell := func(x, y float64) (int, int) {
		return Cell(x, y, s.Width, s.Height, 1, 1, width-2, height-2)
	}

	points := pointIndex(s)
	for _, e := range s.Edges {
		a, b := points[e.From], points[e.To]
		x1, y1 := cell(a.X, a.Y)
		x2, y2 := cell(b.X, b.Y)
		Line(x1, y1, x2, y2, func(x, y int) {
			if grid[y][x] == ' ' {
				grid[y][x] = edgeSymbol
			}
		})
	}
	for _, p := range s.Points {
		x, y := cell(p.X, p.Y)
		grid[y][x] = pointSymbol
	}
	for _, t := range s.Travelers {
		if t.Radius <= 0 || t.Alpha <= 0 {
			continue
		}
		x, y := cell(t.X, t.Y)
		grid[y][x] = waveSymbols[t.Wave%len(waveSymbols)]
	}

	if options.Timestamp && height > 4 {
		status := fmt.Sprintf(" frame %d waves %d travelers %d ", s.Frame, len(s.Waves), len(s.Travelers))
		for i, c := range []rune(status) {
			if i+2 >= width-1 {
				break
			}
			grid[height-1][i+2] = c
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return []byte(result.String()), nil
}

// JSONRenderer outputs the snapshot as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the frame as JSON data for machine consumption"
}

// Render creates a JSON representation of the snapshot
func (r *JSONRenderer) Render(s *models.Snapshot, _ *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the proximity graph in Graphviz DOT format"
}

// Render creates a DOT representation of the snapshot. Points visited by a
// live wave are filled with the color of the newest such wave.
func (r *DOTRenderer) Render(s *models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	pal := GetPalette(options.ColorScheme)

	fill := map[int64]string{}
	for _, t := range s.Travelers {
		fill[t.From] = pal.WaveColor(t.Wave)
		if t.To != nil {
			fill[*t.To] = pal.WaveColor(t.Wave)
		}
	}

	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=\"%s\", size=\"%.2f,%.2f\"];\n", pal.Background, s.Width/72.0, s.Height/72.0)
	fmt.Fprintf(&buf, "  node [shape=circle, fontname=\"Arial\", fontsize=%g];\n", options.FontSize)
	for _, p := range s.Points {
		attrs := fmt.Sprintf("pos=\"%.3f,%.3f!\"", p.X/72.0, (s.Height-p.Y)/72.0)
		if c, ok := fill[p.ID]; ok {
			attrs += fmt.Sprintf(", style=filled, fillcolor=\"%s\"", c)
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", p.ID, attrs)
	}
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %d -- %d [weight=%.3f, penwidth=%.3f];\n", e.From, e.To, e.Weight, math.Max(0.1, e.Weight*options.EdgeWidth))
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Helper functions

func pointIndex(s *models.Snapshot) map[int64]models.PointView {
	m := make(map[int64]models.PointView, len(s.Points))
	for _, p := range s.Points {
		m[p.ID] = p
	}
	return m
}

// Cell maps canvas coordinates onto a grid of cols x rows cells whose top left
// cell is (x0, y0). Coordinates off the canvas are clamped to the border cells.
func Cell(x, y, width, height float64, x0, y0, cols, rows int) (int, int) {
	cx := x0 + int(x*float64(cols)/width)
	cy := y0 + int(y*float64(rows)/height)
	return clamp(cx, x0, x0+cols-1), clamp(cy, y0, y0+rows-1)
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Line calls plot for each cell on the line using Bresenham's algorithm
func Line(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
