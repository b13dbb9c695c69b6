package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	gvio "github.com/matzehuels/graphview/pkg/io"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/render"
	"github.com/matzehuels/graphview/pkg/view"
)

// Output formats of the layout command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

type layoutOptions struct {
	output string
	format string
	width  float64
	height float64
	save   bool
	ff     layout.FastForward
}

// layoutCommand runs a layout to a stable result and exports positions.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOptions{
		width:  800,
		height: 600,
		ff: layout.FastForward{
			Mode:    layout.ModeUntilStable,
			Epsilon: 0.01,
			Force:   true,
		},
	}
	var mode string

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Lay out a graph and export node positions",
		Long: `Lay out a graph and export node positions.

The layout runs headless until it is stable (or for a fixed number of steps or
a time budget) over a width x height area, then writes the graph with
positions as JSON, or a pinned snapshot as Graphviz DOT or SVG. The format is
taken from --format, or from the output file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ff.Mode = layout.Mode(mode)
			return c.runLayout(cmd, args[0], opts)
		},
	}

	config.BindFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, dot, svg")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "layout area width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "layout area height")
	cmd.Flags().StringVar(&mode, "mode", string(opts.ff.Mode), "fast-forward mode: until_stable, steps, budgeted")
	cmd.Flags().IntVar(&opts.ff.Steps, "steps", 0, "step count for steps mode, cap for the others")
	cmd.Flags().DurationVar(&opts.ff.Budget, "budget", 0, "time budget for budgeted mode")
	cmd.Flags().Float64Var(&opts.ff.Epsilon, "epsilon", opts.ff.Epsilon, "mean displacement threshold for until_stable mode")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the layout state to the store")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, opts layoutOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, output, err := resolveOutput(input, opts.output, opts.format)
	if err != nil {
		return err
	}
	if err := errors.First(
		errors.ValidatePositive("width", opts.width),
		errors.ValidatePositive("height", opts.height),
		opts.ff.Validate(),
	); err != nil {
		return err
	}

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := gvio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	v, st, err := c.openView(cmd, cfg, g)
	if err != nil {
		return err
	}
	defer st.Close()
	v.Fit(geom.FromSize(opts.width, opts.height))

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Running %s layout...", v.Layout().Kind()))
	spinner.Start()
	prog := newProgress(logger)
	res, err := v.FastForward(ctx, opts.ff)
	if err != nil {
		spinner.StopWithError(cmd.ErrOrStderr(), "Layout failed")
		return fmt.Errorf("fast-forward: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Fast-forward finished", "steps", res.Steps, "displacement", res.MeanDisplacement)

	if opts.save {
		if err := v.SaveState(ctx); err != nil {
			return err
		}
		logger.Debug("saved layout state", "key", v.StateKey())
	}

	data, err := encodeLayout(cmd, v, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Layout complete")
	printFile(out, output)
	printStats(out,
		stat{g.NodeCount(), "nodes"},
		stat{g.EdgeCount(), "edges"},
		stat{res.Steps, "steps"},
	)
	if format == formatJSON {
		printNextStep(out, "Explore", appName+" view "+output)
	}
	return nil
}

// resolveOutput picks the format from the flag or the output extension and
// derives the output path from the input when none is given.
func resolveOutput(input, output, format string) (string, string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
		if format == "" {
			format = formatJSON
		}
	}
	switch format {
	case formatJSON, formatDOT, formatSVG:
	default:
		return "", "", errors.New(errors.ErrCodeInvalidInput, "unknown output format %q", format)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout." + format
	}
	return format, output, nil
}

func encodeLayout(cmd *cobra.Command, v *view.GraphView, format string) ([]byte, error) {
	st := v.Style()
	switch format {
	case formatDOT:
		return []byte(render.ToDOT(v.Graph(), render.DOTOptions{Labels: st.Labels, Style: &st})), nil
	case formatSVG:
		dot := render.ToDOT(v.Graph(), render.DOTOptions{Labels: st.Labels, Style: &st})
		start := time.Now()
		svg, err := render.RenderSVG(cmd.Context(), dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		loggerFromContext(cmd.Context()).Debug("rendered svg", "bytes", len(svg), "elapsed", time.Since(start).Round(time.Millisecond))
		return svg, nil
	}
	var buf bytes.Buffer
	if err := gvio.WriteJSON(v.Graph(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
