package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
	"github.com/lennartvogel/foldview/pkg/pipeline"
	"github.com/lennartvogel/foldview/pkg/render"
)

// Export modes.
const (
	modeRegions = "regions"
	modeLayers  = "layers"
)

// exportCommand creates the export command for Graphviz visualizations.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		format   string
		mode     string
		level    string
		detailed bool
		zoom     float64
		canvasW  float64
		canvasH  float64
	)

	cmd := &cobra.Command{
		Use:   "export [model.json]",
		Short: "Export a model's fold state or layering as SVG, PNG or DOT",
		Long: `Export a model's fold state or layering as SVG, PNG or DOT.

Two modes are available:

  regions   the region tree with the expansion state the given viewport
            produces (collapsed regions are drawn dashed and grey)
  layers    the layered structure of one hierarchy level, with nodes
            clustered by layer

For mode layers, --level selects the parent node whose children are laid
out; the default is the model root, i.e. the top level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output, format, mode, level, detailed, zoom, canvasW, canvasH)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeRegions, "what to export: regions, layers")
	cmd.Flags().StringVar(&level, "level", "", "parent node ID for mode layers (default: model root)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include geometry and layout properties in labels")
	cmd.Flags().Float64Var(&zoom, "zoom", 1.0, "viewport zoom for mode regions")
	cmd.Flags().Float64Var(&canvasW, "canvas-width", 1920, "canvas width for mode regions")
	cmd.Flags().Float64Var(&canvasH, "canvas-height", 1080, "canvas height for mode regions")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output, format, mode, level string, detailed bool, zoom, canvasW, canvasH float64) error {
	runner := pipeline.NewRunner(nil, c.Logger)
	root, err := runner.LoadModel(input)
	if err != nil {
		return err
	}

	ropts := render.Options{Detailed: detailed}
	var dot string
	switch mode {
	case modeRegions:
		vp := fold.Viewport{Zoom: zoom, Canvas: kgraph.Size{Width: canvasW, Height: canvasH}}
		runner.ApplyViewport(ctx, input, root, vp, c.pipelineOptions())
		dot = render.RegionTreeDOT(runner.DepthMap(ctx, input, root), ropts)
	case modeLayers:
		parent := root
		if level != "" {
			parent = findLevel(root, level)
			if parent == nil {
				return errors.New(errors.ErrCodeNodeNotFound, "node %s not in model", level)
			}
		}
		dir := c.Config.LayoutDirection()
		layers := layered.LayersOf(parent.Children, dir)
		dot = render.LayeredDOT(parent.Children, layers, ropts)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown mode %q", mode)
	}

	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + "." + format
	}

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg", "png":
		sp := startSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
		if format == "svg" {
			data, err = render.RenderSVG(dot)
		} else {
			data, err = render.RenderPNG(dot)
		}
		if err != nil {
			sp.fail("Render failed")
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		sp.stop()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write output %s", output)
	}

	printSuccess("Export complete")
	printFile(output)
	return nil
}

// findLevel locates a node by ID.
func findLevel(root *kgraph.Node, id string) *kgraph.Node {
	var found *kgraph.Node
	root.Walk(func(n *kgraph.Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
