package cli

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphview/pkg/graph"
	gvio "github.com/matzehuels/graphview/pkg/io"
	"github.com/matzehuels/graphview/pkg/watch"
)

// reloadOnChange re-imports the watched file on every event and hands the
// new graph to apply. A file that fails to parse keeps the current graph.
// It returns when the watcher closes its channel.
func reloadOnChange(w *watch.Watcher, logger *log.Logger, apply func(*graph.Graph) error) {
	for ev := range w.Events() {
		if err := reloadFile(ev.Path, apply); err != nil {
			logger.Warn("reload failed, keeping current graph", "path", ev.Path, "error", err)
			continue
		}
		logger.Info("graph reloaded", "path", ev.Path)
	}
}

func reloadFile(path string, apply func(*graph.Graph) error) error {
	g, err := gvio.ImportJSON(path)
	if err != nil {
		return err
	}
	return apply(g)
}
