// Package watch reports changes to a single file.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are still seen. Bursts of events are coalesced into one [Event] after a
// quiet period.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that the watched file changed.
type Event struct {
	Path string
	Time time.Time
}

// Watcher watches one file.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
	events   chan Event
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values disable
// coalescing.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(w *Watcher) { w.logger = l } }

// New starts watching path. Call Run to receive events.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fs:       fs,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   log.New(io.Discard),
		events:   make(chan Event, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events delivers coalesced changes. It is closed when Run returns. A
// pending event is replaced rather than queued behind a slow reader.
func (w *Watcher) Events() <-chan Event { return w.events }

// Run processes file system events until ctx is done or the watcher fails.
// It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fs.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev.Op) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			if w.debounce <= 0 {
				w.emit()
				continue
			}
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending {
				pending = false
				w.emit()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) emit() {
	ev := Event{Path: w.path, Time: time.Now()}
	select {
	case w.events <- ev:
	default:
		// replace the unread event
		select {
		case <-w.events:
		default:
		}
		w.events <- ev
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
