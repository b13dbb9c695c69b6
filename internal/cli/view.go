package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/graph"
	gvio "github.com/matzehuels/graphview/pkg/io"
	"github.com/matzehuels/graphview/pkg/watch"
)

// viewCommand explores a graph interactively in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		watchFile bool
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Explore a graph interactively in the terminal",
		Long: `Explore a graph interactively in the terminal.

Drag nodes with the mouse, scroll to zoom, drag the background to pan and
shift-drag to select a region. Interaction beyond zoom and pan is enabled
through the [interaction] section of the config file. The layout state is
saved to the store on exit.

Logs would corrupt the screen, so they are discarded unless --log-file is
given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, args[0], watchFile, logFile)
		},
	}

	config.BindFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the graph when the file changes")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, path string, watchFile bool, logFile string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())
	ctx, cancel := context.WithCancel(withLogger(cmd.Context(), logger))
	defer cancel()
	cmd.SetContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := gvio.ImportJSON(path)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	v, st, err := c.openView(cmd, cfg, g)
	if err != nil {
		return err
	}
	defer st.Close()

	var reloads chan *graph.Graph
	if watchFile {
		w, err := watch.New(path, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		reloads = make(chan *graph.Graph)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
		go func() {
			defer close(reloads)
			reloadOnChange(w, logger, func(g *graph.Graph) error {
				select {
				case reloads <- g:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}()
	}

	p := tea.NewProgram(newTUIModel(ctx, v, reloads),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	if err := v.SaveState(context.WithoutCancel(ctx)); err != nil {
		printWarning(cmd.ErrOrStderr(), "layout state not saved: %v", err)
	} else {
		logger.Debug("saved layout state", "key", v.StateKey())
	}
	return cmd.Context().Err()
}
