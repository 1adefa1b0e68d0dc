// Package config loads the settings of a simulation run.
//
// Settings come from a YAML or JSON file; command line flags override them.
// They are fixed once the driver starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/traveler"
	"github.com/TFMV/wavegraph/wave"
)

// Config is the complete set of run settings.
type Config struct {
	// Points is the number of random points generated when no input file is given.
	Points int `json:"points"`
	// Width and Height of the canvas.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Cutoff is the connection distance: points strictly closer are neighbors.
	Cutoff float64 `json:"cutoff"`
	// Speed is the distance a traveler moves per reference frame.
	Speed float64 `json:"speed"`
	// RemoveDelay is how long a finished traveler lingers before it is removed.
	RemoveDelay Duration `json:"removeDelay"`
	// StopTime is the fade-out duration of a traveler that arrived.
	StopTime Duration `json:"stopTime"`
	// ShrinkTime is the shrink duration of a truncated traveler.
	ShrinkTime Duration `json:"shrinkTime"`
	// Motion names the drift model: wander, flow or static.
	Motion string `json:"motion"`
	// Seed for point generation and motion; 0 means time based.
	Seed int64 `json:"seed"`
	// Input is an optional JSON or CSV file of points.
	Input string `json:"input,omitempty"`
	// Chime plays a tone when a wave starts.
	Chime bool `json:"chime,omitempty"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		Points:      50,
		Width:       800,
		Height:      600,
		Cutoff:      260,
		Speed:       2,
		RemoveDelay: Duration{250 * time.Millisecond},
		StopTime:    Duration{250 * time.Millisecond},
		ShrinkTime:  Duration{100 * time.Millisecond},
		Motion:      "wander",
	}
}

// Load reads file over the defaults.
func Load(file string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(file)
	if err != nil {
		return c, fmt.Errorf("%v: %w", file, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%v: %w", file, err)
	}
	return c, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Points < 0 {
		errs = append(errs, fmt.Errorf("points must not be negative: %d", c.Points))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive: %vx%v", c.Width, c.Height))
	}
	if c.Cutoff <= 0 {
		errs = append(errs, fmt.Errorf("cutoff must be positive: %v", c.Cutoff))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive: %v", c.Speed))
	}
	for name, d := range map[string]Duration{"removeDelay": c.RemoveDelay, "stopTime": c.StopTime, "shrinkTime": c.ShrinkTime} {
		if d.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative: %v", name, d))
		}
	}
	return errors.Join(errs...)
}

// Bounds returns the canvas size.
func (c Config) Bounds() models.Bounds {
	return models.Bounds{Width: c.Width, Height: c.Height}
}

// Wave returns the coordinator settings.
func (c Config) Wave() wave.Config {
	return wave.Config{
		Traveler: traveler.Params{
			Speed:      c.Speed,
			Cutoff:     c.Cutoff,
			StopTime:   c.StopTime.Duration,
			ShrinkTime: c.ShrinkTime.Duration,
		},
		RemoveDelay: c.RemoveDelay.Duration,
	}
}

// RandomSeed returns Seed, or a time based seed if Seed is 0.
func (c Config) RandomSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
