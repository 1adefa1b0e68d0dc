package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/wavegraph/internal/logging"
	"github.com/TFMV/wavegraph/internal/must"
	"github.com/TFMV/wavegraph/metrics"
	"github.com/TFMV/wavegraph/render"
	"github.com/TFMV/wavegraph/sim"
)

var (
	runScript   script
	runSnapshot *string
	runMetrics  *string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless and print a summary.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			log := logging.Log()
			c := loadConfig(cmd)
			m := metrics.New()
			d := newDriver(c, log, sim.WithObserver(m))
			must.Must(runScript.schedule(d))
			must.Must(steps(cmd, d, &runScript))

			s := d.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "frames=%d elapsed=%v points=%d edges=%d waves=%d travelers=%d\n",
				s.Frame, s.Elapsed, len(s.Points), len(s.Edges), len(s.Waves), len(s.Travelers))
			if *runSnapshot != "" {
				out := must.Must1(render.Generate(s, "json"))
				must.Must(os.WriteFile(*runSnapshot, out, 0o644), "write snapshot")
			}
			if *runMetrics != "" {
				must.Must(m.WriteFile(*runMetrics), "write metrics")
			}
		},
	}
)

func init() {
	runScript.addFlags(runCmd, 600)
	runSnapshot = runCmd.Flags().String("snapshot", "", "Write the final snapshot as JSON to this file")
	runMetrics = runCmd.Flags().String("metrics", "", "Write metrics in text exposition format to this file")
	rootCmd.AddCommand(runCmd)
}

// steps runs the scripted frames, then optionally until the driver is idle.
func steps(cmd *cobra.Command, d *sim.Driver, s *script) error {
	if s.frames > 0 {
		if err := d.Run(cmd.Context(), s.frames, s.frame()); err != nil {
			return err
		}
	}
	for s.idle && !d.Idle() {
		if err := d.Run(cmd.Context(), 1, s.frame()); err != nil {
			return err
		}
	}
	return nil
}
