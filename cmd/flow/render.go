package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// viewFlags describe the editor view a render reproduces.
type viewFlags struct {
	width, height float64
	zoom          int
	scrollX       float64
	scrollY       float64
	selection     []string
	horizontalPan bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 800, "measured view width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 600, "measured view height in pixels")
	cmd.Flags().IntVar(&f.zoom, "zoom", 100, "zoom percentage")
	cmd.Flags().Float64Var(&f.scrollX, "scroll-x", 0, "horizontal scroll offset")
	cmd.Flags().Float64Var(&f.scrollY, "scroll-y", 0, "vertical scroll offset")
	cmd.Flags().StringSliceVar(&f.selection, "select", nil, "block ids to show selected")
	cmd.Flags().BoolVar(&f.horizontalPan, "horizontal-pan", false, "let the view box follow the horizontal scroll")
}

// frame mounts a viewport over d and returns what it would paint.
func (f *viewFlags) frame(d *flow.Diagram, log *slog.Logger) viewport.Frame {
	opts := viewport.DefaultOptions()
	opts.HorizontalPanInViewBox = f.horizontalPan
	opts.Logger = log

	v := viewport.New(opts, viewport.Handlers{})
	v.Sync(d)
	v.Mount(viewport.MeasureFunc(func() (float64, float64) { return f.width, f.height }))
	v.SetZoom(f.zoom)
	v.ScrollTo(f.scrollX, f.scrollY)
	v.Select(f.selection...)
	return v.Frame()
}

func newSVGCommand(logger func() *slog.Logger) *cobra.Command {
	var (
		view   viewFlags
		title  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "svg <file>",
		Short: "Render the diagram as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			opts := flowfile.DefaultSVGOptions()
			opts.Title = title
			out := flowfile.GenerateSVG(d, view.frame(d, logger()), opts)
			return writeOutput(cmd, output, []byte(out))
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "title drawn at the top")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newPNGCommand(logger func() *slog.Logger) *cobra.Command {
	var (
		view   viewFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "png <file>",
		Short: "Render the diagram as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("png: --output is required")
			}
			d, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := flowfile.RenderPNG(d, view.frame(d, logger()), &buf, flowfile.DefaultPNGOptions()); err != nil {
				return err
			}
			return writeOutput(cmd, output, buf.Bytes())
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}
