package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a progress indicator for long fast-forward runs. It stops when
// its context is cancelled.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message  string
	width    int
	byCaller bool
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

// Stop stops the spinner and clears its line. It may be called more than
// once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		if s.ctx.Err() == nil {
			s.byCaller = true
		}
		s.mu.Unlock()
		s.cancel()
		<-s.stopped
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(w io.Writer, message string) {
	s.Stop()
	printSuccess(w, "%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(w io.Writer, message string) {
	s.Stop()
	printError(w, "%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Err() != nil && !s.byCaller
}
