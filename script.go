package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/wavegraph/sim"
)

// script holds the flags shared by the headless commands.
type script struct {
	frames int
	fps    float64
	clicks []string
	idle   bool
}

func (s *script) addFlags(cmd *cobra.Command, frames int) {
	cmd.Flags().IntVarP(&s.frames, "frames", "n", frames, "Number of frames to step")
	cmd.Flags().Float64Var(&s.fps, "fps", 60, "Frames per simulated second")
	cmd.Flags().StringArrayVar(&s.clicks, "click", nil, "Click as [FRAME:]X,Y; repeatable")
	cmd.Flags().BoolVar(&s.idle, "until-idle", false, "Keep stepping past --frames until no wave is alive")
}

func (s *script) frame() time.Duration {
	return time.Duration(float64(time.Second) / s.fps)
}

// schedule checks the frame rate and queues the scripted clicks on d.
func (s *script) schedule(d *sim.Driver) error {
	if !(s.fps > 0) || math.IsInf(s.fps, 1) || s.frame() <= 0 {
		return fmt.Errorf("invalid --fps %v: want a positive frame rate", s.fps)
	}
	for _, c := range s.clicks {
		frame, pos, err := parseClick(c)
		if err != nil {
			return err
		}
		d.ClickAt(frame, pos)
	}
	return nil
}

// parseClick parses [FRAME:]X,Y.
func parseClick(s string) (int, r2.Vec, error) {
	frame := 0
	xy := s
	if f, rest, ok := strings.Cut(s, ":"); ok {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, r2.Vec{}, fmt.Errorf("invalid click frame %q", s)
		}
		frame, xy = n, rest
	}
	xs, ys, ok := strings.Cut(xy, ",")
	if !ok {
		return 0, r2.Vec{}, fmt.Errorf("invalid click %q: want [FRAME:]X,Y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return 0, r2.Vec{}, fmt.Errorf("invalid click %q: want [FRAME:]X,Y", s)
	}
	return frame, r2.Vec{X: x, Y: y}, nil
}
