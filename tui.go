package main

import (
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/TFMV/wavegraph/audio"
	"github.com/TFMV/wavegraph/internal/logging"
	"github.com/TFMV/wavegraph/internal/must"
	"github.com/TFMV/wavegraph/render"
	"github.com/TFMV/wavegraph/sim"
	"github.com/TFMV/wavegraph/terminal"
)

var (
	tuiLogFile *string
	tuiChime   *bool
	tuiColors  *string

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Run the simulation interactively in the terminal. Click a point to start a wave.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			c := loadConfig(cmd)
			if cmd.Flags().Changed("chime") {
				c.Chime = *tuiChime
			}

			// The screen owns stderr while it is up.
			var w io.Writer = io.Discard
			if *tuiLogFile != "" {
				f := must.Must1(os.OpenFile(*tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644))
				defer func() { _ = f.Close() }()
				w = f
			}
			logging.Redirect(w)
			lg := logging.Log()

			var opts []sim.Option
			if c.Chime {
				chime := audio.NewChime()
				if err := chime.Initialize(); err != nil {
					lg.Error(err, "audio disabled") // Non-fatal, run without sound
				} else {
					defer chime.Close()
					opts = append(opts, sim.WithObserver(chime))
				}
			}

			screen := must.Must1(tcell.NewScreen())
			must.Must(screen.Init(), "terminal")
			defer screen.Fini()

			d := newDriver(c, lg, opts...)
			app := terminal.New(screen, d, terminal.WithLogger(lg), terminal.WithPalette(render.GetPalette(*tuiColors)))
			must.Must(app.Run(cmd.Context()))
		},
	}
)

func init() {
	tuiLogFile = tuiCmd.Flags().String("log", "", "Append log output to this file")
	tuiChime = tuiCmd.Flags().Bool("chime", false, "Play a tone when a wave starts")
	tuiColors = tuiCmd.Flags().String("colors", "dark", "Color scheme: default or dark")
	rootCmd.AddCommand(tuiCmd)
}
