package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Running layout...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Running layout...") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop should clear the spinner line")
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinner(ctx, &bytes.Buffer{}, "waiting")
			s.Start()
			if tt.name == "cancel" {
				cancel()
			}
			time.Sleep(60 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
			cancel()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "idempotent")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "first")
	s.SetMessage("second")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	var out bytes.Buffer
	s.StopWithSuccess(&out, "done")

	if !strings.Contains(buf.String(), "second") {
		t.Errorf("spinner output %q missing updated message", buf.String())
	}
	if !strings.Contains(out.String(), "done") {
		t.Errorf("success output = %q", out.String())
	}
}
