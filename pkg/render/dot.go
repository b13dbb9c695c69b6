package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphview/pkg/graph"
)

// pointsPerInch converts graph units to Graphviz inches at Scale 1.
const pointsPerInch = 72.0

// DOTOptions configures snapshot export.
type DOTOptions struct {
	// Labels writes node and edge labels. When false, nodes are drawn as
	// unlabeled points.
	Labels bool
	// Scale multiplies positions and radii. Zero means 1.
	Scale float64
	// Style supplies colors and fallback sizes. The zero value means
	// DefaultStyle.
	Style *Style
}

// ToDOT converts g to Graphviz DOT with every node pinned at its current
// position, so that neato reproduces the on-screen layout. Graph-space y
// grows downward and is flipped for Graphviz.
func ToDOT(g *graph.Graph, opts DOTOptions) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	st := DefaultStyle()
	if opts.Style != nil {
		st = *opts.Style
	}

	kind, arrow := "graph", "--"
	if g.IsDirected() {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Pos.X*scale), fmtFloat(-n.Pos.Y*scale)),
			fmt.Sprintf("width=%s", fmtFloat(2*st.nodeRadius(n)*scale/pointsPerInch)),
			fmt.Sprintf("fillcolor=%q", st.nodeColor(n)),
		}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", n.DisplayLabel()))
		} else {
			attrs = append(attrs, "label=\"\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{
			fmt.Sprintf("color=%q", st.edgeColor(e)),
			fmt.Sprintf("penwidth=%s", fmtFloat(st.edgeWidth(e))),
		}
		if opts.Labels && e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.Source.String(), arrow, e.Target.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out dot with neato, honoring pinned positions, and renders
// it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with a plain one
// sized to the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		match[1], match[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
