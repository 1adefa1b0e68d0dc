// Package terminal runs the simulation interactively in a terminal.
//
// Every cell covers CellWidth x CellHeight canvas units and the last row is a
// status line. A press of the primary mouse button starts a wave at the point
// nearest the cell; resizing the terminal resizes the canvas.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/render"
	"github.com/TFMV/wavegraph/sim"
)

// Canvas units per terminal cell.
const (
	CellWidth  = 10
	CellHeight = 20
)

const (
	pointRune    = 'o'
	edgeRune     = '·'
	travelerRune = '●'
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option { return func(a *App) { a.log = l } }

// WithFrame sets the frame interval.
func WithFrame(d time.Duration) Option { return func(a *App) { a.frame = d } }

// WithPalette sets the colors used to draw.
func WithPalette(p *render.Palette) Option { return func(a *App) { a.palette = p } }

// App draws a driver on a tcell screen and feeds it input events.
type App struct {
	screen  tcell.Screen
	driver  *sim.Driver
	log     logr.Logger
	frame   time.Duration
	palette *render.Palette
	pressed bool
	wave    string // tag of the last wave started with the mouse
	cols    int
	rows    int
}

// New creates an app on an initialized screen. The driver canvas is resized
// to fit the screen.
func New(screen tcell.Screen, d *sim.Driver, opts ...Option) *App {
	a := &App{
		screen:  screen,
		driver:  d,
		log:     logr.Discard(),
		frame:   sim.ReferenceFrame,
		palette: render.DarkPalette(),
	}
	for _, o := range opts {
		o(a)
	}
	screen.EnableMouse()
	screen.HideCursor()
	a.resize(screen.Size())
	return a
}

// Run steps and draws the driver once per frame until the user quits or ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	last := time.Now()
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			a.driver.Step(now.Sub(last))
			last = now
			a.Draw()
		}
	}
}

// HandleEvent applies one input event. It returns false when the user asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !a.pressed {
			x, y := ev.Position()
			pos := a.canvasPos(x, y)
			if w := a.driver.Click(pos); w != nil {
				a.wave = w.Tag
				a.log.V(1).Info("wave from mouse", "wave", w.Tag, "cell", fmt.Sprintf("%d,%d", x, y))
			}
		}
		a.pressed = down
	case *tcell.EventResize:
		a.resize(ev.Size())
		a.screen.Sync()
	}
	return true
}

// Draw renders the current frame.
func (a *App) Draw() {
	s := a.driver.Snapshot()
	a.screen.Clear()

	bg := tcell.GetColor(a.palette.Background)
	base := tcell.StyleDefault.Background(bg)
	faint := base.Foreground(tcell.ColorGray)
	bright := base.Foreground(tcell.GetColor(a.palette.EdgeColor))

	points := make(map[int64]models.PointView, len(s.Points))
	for _, p := range s.Points {
		points[p.ID] = p
	}
	for _, e := range s.Edges {
		style := faint
		if e.Weight > 0.5 {
			style = bright
		}
		x1, y1 := a.cell(points[e.From])
		x2, y2 := a.cell(points[e.To])
		render.Line(x1, y1, x2, y2, func(x, y int) {
			a.screen.SetContent(x, y, edgeRune, nil, style)
		})
	}
	pointStyle := base.Foreground(tcell.GetColor(a.palette.PointColor))
	for _, p := range s.Points {
		x, y := a.cell(p)
		a.screen.SetContent(x, y, pointRune, nil, pointStyle)
	}
	for _, t := range s.Travelers {
		if t.Radius <= 0 || t.Alpha <= 0 {
			continue
		}
		x, y := a.cell(models.PointView{X: t.X, Y: t.Y})
		style := base.Foreground(tcell.GetColor(a.palette.WaveColor(t.Wave)))
		if t.Alpha < 0.5 {
			style = style.Dim(true)
		}
		a.screen.SetContent(x, y, travelerRune, nil, style)
	}

	status := fmt.Sprintf(" frame %d  waves %d  travelers %d", s.Frame, len(s.Waves), len(s.Travelers)) +
		a.waveStatus(s) + "  click a point, q to quit"
	for i, r := range []rune(status) {
		if i >= a.cols {
			break
		}
		a.screen.SetContent(i, a.rows-1, r, nil, base.Reverse(true))
	}
	a.screen.Show()
}

// waveStatus describes the last clicked wave while it is alive: visited and
// reachable node counts and the origin position.
func (a *App) waveStatus(s *models.Snapshot) string {
	if a.wave == "" {
		return ""
	}
	w, err := s.FindWave(a.wave)
	if err != nil {
		a.wave = ""
		return ""
	}
	o, err := s.FindPoint(w.Origin)
	if err != nil {
		return fmt.Sprintf("  wave %d/%d", w.Visited, w.Reachable)
	}
	return fmt.Sprintf("  wave %d/%d from %.0f,%.0f", w.Visited, w.Reachable, o.X, o.Y)
}

func (a *App) resize(cols, rows int) {
	a.cols, a.rows = max(cols, 1), max(rows, 2)
	a.driver.Resize(float64(a.cols*CellWidth), float64(a.field()*CellHeight))
	a.log.V(1).Info("resize", "cols", a.cols, "rows", a.rows)
}

// canvasPos returns the canvas position at the center of a cell.
func (a *App) canvasPos(x, y int) r2.Vec {
	return r2.Vec{X: (float64(x) + 0.5) * CellWidth, Y: (float64(y) + 0.5) * CellHeight}
}

// field is the number of rows above the status line.
func (a *App) field() int { return a.rows - 1 }

func (a *App) cell(p models.PointView) (int, int) {
	return render.Cell(p.X, p.Y, float64(a.cols*CellWidth), float64(a.field()*CellHeight), 0, 0, a.cols, a.field())
}
