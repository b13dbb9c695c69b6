package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnStep("force_directed", 10, 0.5)
	l.OnConverged("force_directed", 120)
	l.OnDegenerate("force_directed", 3)
	l.OnFastForward(ctx, "force_directed", 100, time.Second)

	f := NoopFrameHooks{}
	f.OnFrame(ctx, 10, 9, 2, time.Millisecond)

	s := NoopStoreHooks{}
	s.OnHit(ctx, "file")
	s.OnMiss(ctx, "redis")
	s.OnSet(ctx, "mongo", 512)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Frame().(NoopFrameHooks); !ok {
		t.Error("Frame() should return NoopFrameHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customFrame := &testFrameHooks{}
	SetFrameHooks(customFrame)
	if Frame() != customFrame {
		t.Error("SetFrameHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep the previous hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testLayoutHooks{}
	SetLayoutHooks(h)
	Layout().OnStep("force_directed", 4, 1)
	Layout().OnStep("force_directed", 4, 0.5)
	Layout().OnConverged("force_directed", 2)

	if h.steps != 2 {
		t.Errorf("steps = %d, want 2", h.steps)
	}
	if h.converged != 1 {
		t.Errorf("converged = %d, want 1", h.converged)
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetStoreHooks(&testStoreHooks{})
		}()
		go func() {
			defer wg.Done()
			Store().OnHit(context.Background(), "file")
		}()
	}
	wg.Wait()
}

type testLayoutHooks struct {
	NoopLayoutHooks
	steps     int
	converged int
}

func (h *testLayoutHooks) OnStep(string, int, float64) { h.steps++ }
func (h *testLayoutHooks) OnConverged(string, int)     { h.converged++ }

type testFrameHooks struct{ NoopFrameHooks }

type testStoreHooks struct{ NoopStoreHooks }
