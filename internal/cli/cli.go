// Package cli implements the graphview command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/buildinfo"
	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/observability"
	"github.com/matzehuels/graphview/pkg/store"
	"github.com/matzehuels/graphview/pkg/view"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "graphview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphview lays out and explores node-link graphs",
		Long: `Graphview lays out node-link graphs with random, hierarchical, circular and
force-directed algorithms, and lets you explore them interactively in the
terminal or drive them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared setup
// =============================================================================

// loadConfig layers the config file, environment and the command's flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(c.configPath, cmd.Flags())
}

// openView opens the configured store and creates a view over g. Stored
// layout state for the view id is restored unless the layout was chosen on
// the command line. The caller closes the returned store.
func (c *CLI) openView(cmd *cobra.Command, cfg *config.Config, g *graph.Graph) (*view.GraphView, store.Store, error) {
	ctx := cmd.Context()
	observability.SetLayoutHooks(layoutLogger{logger: loggerFromContext(ctx)})

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	v, err := view.New(g,
		view.WithID(cfg.Server.ViewID),
		view.WithLayoutState(cfg.LayoutState()),
		view.WithSettings(cfg.Settings()),
		view.WithStyle(cfg.Style),
		view.WithZoomBounds(cfg.Zoom),
		view.WithStore(st),
		view.WithLogger(loggerFromContext(ctx)),
	)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	if !cmd.Flags().Changed("layout") {
		c.restoreState(ctx, v)
	}
	return v, st, nil
}

func (c *CLI) restoreState(ctx context.Context, v *view.GraphView) {
	err := v.LoadState(ctx)
	switch {
	case err == nil:
		loggerFromContext(ctx).Debug("restored layout state", "view", v.ID(), "kind", v.Layout().Kind())
	case errors.Is(err, errors.ErrCodeNotFound):
	default:
		loggerFromContext(ctx).Warn("ignoring stored layout state", "view", v.ID(), "error", err)
	}
}
