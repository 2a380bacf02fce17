// Command flow is a CLI tool for working with flow diagrams.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "flow",
		Short: "Flow diagram toolkit",
		Long: `flow inspects, converts and renders flow diagrams stored as
JSON, TOML or YAML.`,
		Example: `  flow info pipeline.toml
  flow convert pipeline.toml -o pipeline.json
  flow dot pipeline.yaml | neato -n -Tpng -o pipeline.png
  flow svg pipeline.json --zoom 150 --select read,sink -o view.svg`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log viewport activity to stderr")

	logger := func() *slog.Logger {
		if !verbose {
			return slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	root.AddCommand(newInfoCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newConvertCommand())
	root.AddCommand(newDotCommand())
	root.AddCommand(newSVGCommand(logger))
	root.AddCommand(newPNGCommand(logger))
	return root
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show diagram information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printInfo(w io.Writer, d *flow.Diagram) {
	var outputs, inputs, free int
	for _, p := range d.Pins() {
		if p.Kind == flow.PinOutput {
			outputs++
		} else {
			inputs++
		}
		if !p.Connected {
			free++
		}
	}
	blocks := d.Blocks()
	var extent float64
	for _, b := range blocks {
		if b.Y > extent {
			extent = b.Y
		}
	}

	fmt.Fprintf(w, "Name:        %s\n", d.Name)
	fmt.Fprintf(w, "Blocks:      %d\n", len(blocks))
	fmt.Fprintf(w, "Pins:        %d (%d out, %d in, %d free)\n", outputs+inputs, outputs, inputs, free)
	fmt.Fprintf(w, "Connections: %d\n", len(d.Connections()))
	fmt.Fprintf(w, "Lowest Y:    %g\n", extent)
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate diagram files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				d, err := flowfile.ReadFile(path)
				if err == nil {
					err = d.Validate()
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid, %d blocks, %d connections\n",
					path, len(d.Blocks()), len(d.Connections()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newConvertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between json, toml and yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			d, err := flowfile.ReadFile(input)
			if err != nil {
				return err
			}
			if output == "" {
				output = defaultConvertTarget(input)
			}
			if err := flowfile.WriteFile(output, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension)")
	return cmd
}

// defaultConvertTarget swaps the extension: json -> toml -> yaml -> json.
func defaultConvertTarget(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	switch strings.ToLower(ext) {
	case ".json":
		return base + ".toml"
	case ".toml":
		return base + ".yaml"
	default:
		return base + ".json"
	}
}

func newDotCommand() *cobra.Command {
	var title, output string

	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Generate Graphviz DOT output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = d.Name
			}
			return writeOutput(cmd, output, []byte(flowfile.GenerateDOT(d, title)))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "graph title (default: diagram name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// writeOutput writes to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", path)
	return nil
}
