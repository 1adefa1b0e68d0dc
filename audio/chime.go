// Package audio plays a short chime whenever a wave starts.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/TFMV/wavegraph/wave"
)

const (
	sampleRate = beep.SampleRate(44100)
	chimeTime  = 300 * time.Millisecond
	gain       = 0.2
)

// pentatonic scale, A4 upward; the origin node picks the note.
var notes = []float64{440, 493.88, 554.37, 659.25, 739.99, 880}

// Chime is a wave.Observer that plays a tone for every started wave.
// Without a successful Initialize it stays silent.
type Chime struct {
	wave.NopObserver

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates a silent chime.
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

func (c *Chime) WaveStarted(w *wave.Wave) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s, err := Tone(Note(w.Origin), chimeTime)
	if err != nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Note returns the frequency played for a wave started at node id.
func Note(id int64) float64 {
	if id < 0 {
		id = -id
	}
	return notes[id%int64(len(notes))]
}

// Tone returns a sine tone of freq Hz that decays to silence over d.
func Tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	n := sampleRate.N(d)
	return beep.Take(n, &decay{Streamer: sine, total: n}), nil
}

// decay scales a streamer by an exponential envelope over total samples.
type decay struct {
	beep.Streamer
	total int
	pos   int
}

func (e *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.Streamer.Stream(samples)
	for i := range samples[:n] {
		env := gain * math.Exp(-5*float64(e.pos)/float64(e.total))
		samples[i][0] *= env
		samples[i][1] *= env
		e.pos++
	}
	return n, ok
}
