package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/wavegraph/internal/logging"
	"github.com/TFMV/wavegraph/internal/must"
	"github.com/TFMV/wavegraph/render"
)

var (
	renderScript script
	renderOpts   = render.NewDefaultOptions("svg")
	renderOut    *string

	renderCmd = &cobra.Command{
		Use:   "render FORMAT",
		Short: "Step the simulation and render the last frame as svg, ascii, json or dot.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig(cmd)
			d := newDriver(c, logging.Log())
			must.Must(renderScript.schedule(d))
			must.Must(steps(cmd, d, &renderScript))

			renderOpts.Format = args[0]
			out := must.Must1(render.GenerateWithOptions(d.Snapshot(), renderOpts))
			if *renderOut == "" || *renderOut == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				must.Must(err)
				return
			}
			must.Must(os.WriteFile(*renderOut, out, 0o644), "write %v", *renderOut)
		},
	}
)

func init() {
	renderScript.addFlags(renderCmd, 0)
	flags := renderCmd.Flags()
	renderOut = flags.StringP("output", "o", "", "Output file, default stdout")
	flags.Float64Var(&renderOpts.Scale, "scale", renderOpts.Scale, "Output units per canvas unit (svg)")
	flags.IntVar(&renderOpts.Columns, "columns", renderOpts.Columns, "Grid width (ascii)")
	flags.IntVar(&renderOpts.Rows, "rows", renderOpts.Rows, "Grid height (ascii)")
	flags.BoolVar(&renderOpts.ShowLabels, "labels", renderOpts.ShowLabels, "Label points with their ids")
	flags.BoolVar(&renderOpts.Timestamp, "timestamp", renderOpts.Timestamp, "Include the frame number and time")
	flags.StringVar(&renderOpts.ColorScheme, "colors", renderOpts.ColorScheme, "Color scheme: default or dark")
	rootCmd.AddCommand(renderCmd)
}
