package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/platform"
	"github.com/1broseidon/hyprcycle/internal/render"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		width  int
		titles bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the current cycle order",
		Long: `Draw the current cycle order straight from the compositor.

Formats:
  svg    monitors and windows at their positions, numbered in cycle order
  dot    the cycle as a Graphviz graph, one cluster per group
  graph  the dot graph rendered to SVG with Graphviz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			backend, err := platform.Open(res.Config.Backend)
			if err != nil {
				return err
			}
			defer backend.Close()

			snap, err := backend.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			v, err := switcher.Build(snap, res.Config)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "svg":
				opts := []render.SVGOption{render.WithWidth(float64(width))}
				if titles {
					opts = append(opts, render.WithTitles())
				}
				data = render.RenderSVG(v, snap.Monitors, opts...)
			case "dot":
				data = []byte(render.ToDOT(v))
			case "graph":
				if data, err = render.RenderDOT(cmd.Context(), render.ToDOT(v)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (expected svg, dot or graph)", format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			_, err = w.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "svg, dot or graph")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&width, "width", 960, "svg width in pixels")
	cmd.Flags().BoolVar(&titles, "titles", false, "include window titles in the svg")
	return cmd
}
