// Package render produces debug visualizations of a model's fold state and
// layered structure via Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes geometry and layout properties in node labels.
	// When false, only IDs and expansion states are shown.
	Detailed bool
}

// RegionTreeDOT converts a depth map's region tree to Graphviz DOT format.
// Collapsed regions are rendered with dashed outlines and grey fill so the
// current fold frontier is visible at a glance.
func RegionTreeDOT(dm *fold.DepthMap, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph regions {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i, r := range dm.RootRegions {
		rootName := fmt.Sprintf("root%d", i)
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded\"];\n", rootName, rootName)
		writeRegion(&buf, r, rootName, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeRegion(buf *bytes.Buffer, r *fold.Region, parentName string, opts Options) {
	for _, c := range r.Children {
		name := regionName(c)
		attrs := []string{fmt.Sprintf("label=%q", regionLabel(c, opts))}
		if !c.Expanded {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
		fmt.Fprintf(buf, "  %q -> %q;\n", parentName, name)
		writeRegion(buf, c, name, opts)
	}
}

func regionName(r *fold.Region) string {
	if r.BoundingRect != nil {
		return r.BoundingRect.ID
	}
	return fmt.Sprintf("region@%p", r)
}

func regionLabel(r *fold.Region, opts Options) string {
	label := r.PlaceholderTitle()
	if label == "" {
		label = regionName(r)
	}
	if !opts.Detailed {
		return label
	}
	parts := []string{
		fmt.Sprintf("elements: %d", len(r.Elements)),
		fmt.Sprintf("expanded: %v", r.Expanded),
	}
	if rect := r.BoundingRect; rect != nil {
		parts = append(parts, fmt.Sprintf("%.0fx%.0f", rect.Size.Width, rect.Size.Height))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// LayeredDOT converts one hierarchy level and its layer bands to DOT. Nodes
// of one layer share a rank; edges follow the model's edges.
func LayeredDOT(nodes []*kgraph.Node, layers []layered.Layer, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layers {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	byLayer := make(map[int][]*kgraph.Node)
	for _, n := range nodes {
		byLayer[n.LayerID] = append(byLayer[n.LayerID], n)
	}
	for _, l := range layers {
		fmt.Fprintf(&buf, "  subgraph cluster_layer_%d {\n", l.ID)
		fmt.Fprintf(&buf, "    label=\"layer %d\";\n", l.ID)
		buf.WriteString("    rank=same;\n")
		for _, n := range byLayer[l.ID] {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", n.ID, nodeLabel(n, opts))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, e := range n.Outgoing {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source.ID, e.Target.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *kgraph.Node, opts Options) string {
	if !opts.Detailed {
		return n.ID
	}
	parts := []string{fmt.Sprintf("layer: %d, pos: %d", n.LayerID, n.PosID)}
	if n.LayerConstraint != kgraph.Unset || n.PosConstraint != kgraph.Unset {
		parts = append(parts, fmt.Sprintf("pinned: layer %d, pos %d", n.LayerConstraint, n.PosConstraint))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
