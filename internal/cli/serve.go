package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/graph"
	gvio "github.com/matzehuels/graphview/pkg/io"
	"github.com/matzehuels/graphview/pkg/server"
	"github.com/matzehuels/graphview/pkg/view"
	"github.com/matzehuels/graphview/pkg/watch"
)

// serveCommand hosts a view over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve a graph view over HTTP",
		Long: `Serve a graph view over HTTP.

Clients drive frames by posting pointer input to /input and receive the frame,
the changes and the interaction events as JSON. Without a graph file the view
starts empty; nodes and edges can be added through /nodes and /edges. The
layout state is saved to the store on shutdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if watchFile && path == "" {
				return fmt.Errorf("--watch needs a graph file")
			}
			return c.runServe(cmd, path, watchFile)
		},
	}

	config.BindFlags(cmd.Flags())
	config.BindServerFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the graph when the file changes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, path string, watchFile bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	g := graph.New()
	if path != "" {
		if g, err = gvio.ImportJSON(path); err != nil {
			return fmt.Errorf("load graph %s: %w", path, err)
		}
	}

	v, st, err := c.openView(cmd, cfg, g)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(v, server.WithLogger(logger), server.WithAddr(cfg.Server.Addr))

	if watchFile {
		w, err := watch.New(path, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
		go reloadOnChange(w, logger, func(g *graph.Graph) error {
			var err error
			srv.Update(func(v *view.GraphView) { err = v.SetGraph(g) })
			return err
		})
	}

	printInfo(cmd.OutOrStdout(), "Serving view %s on http://%s", StyleValue.Render(v.ID()), cfg.Server.Addr)
	serveErr := srv.ListenAndServe(ctx)

	saveCtx := context.WithoutCancel(ctx)
	srv.Update(func(v *view.GraphView) {
		if err := v.SaveState(saveCtx); err != nil {
			logger.Warn("save layout state", "error", err)
		}
	})
	return serveErr
}
