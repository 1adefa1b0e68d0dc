package main

import (
	"math/rand/v2"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/TFMV/wavegraph/config"
	"github.com/TFMV/wavegraph/ingest"
	"github.com/TFMV/wavegraph/internal/logging"
	"github.com/TFMV/wavegraph/internal/must"
	"github.com/TFMV/wavegraph/models"
	"github.com/TFMV/wavegraph/physics"
	"github.com/TFMV/wavegraph/sim"
)

const version = "0.2.0"

var (
	rootCmd = &cobra.Command{
		Use:          "wavegraph",
		Short:        "Waves spreading across a proximity graph of drifting points",
		Version:      version,
		SilenceUsage: true,
	}

	// Global flags
	configFile *string
	verbose    *int
	panicOnErr *bool
	points     *int
	width      *float64
	height     *float64
	cutoff     *float64
	speed      *float64
	motion     *string
	seed       *int64
	input      *string

	removeDelay, stopTime, shrinkTime config.Duration
)

func init() {
	flags := rootCmd.PersistentFlags()
	panicOnErr = flags.Bool("panic", false, "panic on error instead of exit code 1")
	verbose = flags.IntP("verbose", "v", 0, "Verbosity for logging")
	configFile = flags.StringP("config", "c", "", "YAML or JSON configuration file")
	points = flags.Int("points", 0, "Number of random points")
	width = flags.Float64("width", 0, "Canvas width")
	height = flags.Float64("height", 0, "Canvas height")
	cutoff = flags.Float64("cutoff", 0, "Connection distance")
	speed = flags.Float64("speed", 0, "Traveler speed per reference frame")
	motion = flags.String("motion", "", "Motion model: wander, flow or static")
	seed = flags.Int64("seed", 0, "Random seed, 0 for time based")
	input = flags.StringP("input", "i", "", "Points file (.json, .csv or .txt) instead of random points")
	flags.Var(&removeDelay, "remove-delay", "Time a finished traveler lingers, as 250ms or seconds")
	flags.Var(&stopTime, "stop-time", "Fade-out time of an arrived traveler")
	flags.Var(&shrinkTime, "shrink-time", "Shrink time of a truncated traveler")

	cobra.OnInitialize(func() { logging.Init(*verbose) }) // After flags are parsed
}

// loadConfig reads the configuration file, then applies flags set on the command line.
func loadConfig(cmd *cobra.Command) config.Config {
	c := config.Default()
	if *configFile != "" {
		c = must.Must1(config.Load(*configFile))
	}
	flags := cmd.Flags()
	if flags.Changed("points") {
		c.Points = *points
	}
	if flags.Changed("width") {
		c.Width = *width
	}
	if flags.Changed("height") {
		c.Height = *height
	}
	if flags.Changed("cutoff") {
		c.Cutoff = *cutoff
	}
	if flags.Changed("speed") {
		c.Speed = *speed
	}
	if flags.Changed("motion") {
		c.Motion = *motion
	}
	if flags.Changed("seed") {
		c.Seed = *seed
	}
	if flags.Changed("input") {
		c.Input = *input
	}
	if flags.Changed("remove-delay") {
		c.RemoveDelay = removeDelay
	}
	if flags.Changed("stop-time") {
		c.StopTime = stopTime
	}
	if flags.Changed("shrink-time") {
		c.ShrinkTime = shrinkTime
	}
	must.Must(c.Validate(), "invalid configuration")
	return c
}

// newDriver creates the points, motion model and driver for c.
func newDriver(c config.Config, log logr.Logger, opts ...sim.Option) *sim.Driver {
	s := c.RandomSeed()
	var pts []models.Point
	if c.Input != "" {
		pts = must.Must1(ingest.LoadFile(c.Input))
	} else {
		pts = ingest.Generate(c.Points, c.Bounds(), rand.New(rand.NewPCG(uint64(s), uint64(s>>1))))
	}
	model := must.Must1(physics.GetModel(c.Motion, s))
	log.V(1).Info("configured", "points", len(pts), "motion", model.GetName(), "seed", s, "cutoff", c.Cutoff)
	return sim.New(c, pts, model, append(opts, sim.WithLogger(log))...)
}
