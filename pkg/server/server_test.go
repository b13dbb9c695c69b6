package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/graphview/pkg/changes"
	gverrors "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/interaction"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/render"
	"github.com/matzehuels/graphview/pkg/store"
	"github.com/matzehuels/graphview/pkg/view"
)

func newTestServer(t *testing.T, opts ...view.Option) (*Server, *view.GraphView) {
	t.Helper()
	g := graph.New()
	a := g.AddNodeAt(nil, geom.V(100, 100))
	b := g.AddNodeAt(nil, geom.V(300, 100))
	if _, err := g.AddEdge(a, b, nil); err != nil {
		t.Fatal(err)
	}
	opts = append([]view.Option{view.WithSettings(interaction.AllEnabled())}, opts...)
	v, err := view.New(g, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return New(v), v
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	s, v := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got healthResponse
	decodeBody(t, rec, &got)
	if got.Status != "ok" || got.View != v.ID() {
		t.Errorf("health = %+v", got)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPropagates(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc" {
		t.Errorf("request id = %q, want abc", got)
	}
}

func TestFrame(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/frame?width=400&height=300", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var f render.Frame
	decodeBody(t, rec, &f)
	if len(f.Nodes) != 2 || len(f.Edges) != 1 {
		t.Fatalf("frame has %d nodes, %d edges", len(f.Nodes), len(f.Edges))
	}
	if f.Viewport != geom.FromSize(400, 300) {
		t.Errorf("viewport = %v", f.Viewport)
	}

	tests := []string{
		"/frame?width=abc&height=10",
		"/frame?width=10",
		"/frame?width=-1&height=10",
	}
	for _, target := range tests {
		if rec := do(t, s, http.MethodGet, target, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestInputDrag(t *testing.T) {
	s, v := newTestServer(t)
	vp := geom.FromSize(800, 600)

	send := func(p geom.Vec2, primary bool) inputResponse {
		req := inputRequest{
			Input:    interaction.Input{Pointer: p, PointerPresent: true, Primary: primary},
			Viewport: &vp,
		}
		rec := do(t, s, http.MethodPost, "/input", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
		var resp inputResponse
		decodeBody(t, rec, &resp)
		return resp
	}

	send(geom.V(100, 100), true)
	resp := send(geom.V(150, 120), true)
	if v.InteractionState() != interaction.StateDragging {
		t.Fatalf("state = %s, want dragging", v.InteractionState())
	}
	moved := false
	for _, c := range resp.Changes {
		if c.Kind == changes.KindLocation && c.To == geom.V(150, 120) {
			moved = true
		}
	}
	if !moved {
		t.Errorf("changes = %+v, want a location change", resp.Changes)
	}
	if len(resp.Frame.Nodes) != 2 {
		t.Errorf("frame has %d nodes", len(resp.Frame.Nodes))
	}
}

func TestInputEmptyBody(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/input", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp inputResponse
	decodeBody(t, rec, &resp)
	if resp.Changes == nil || resp.Events == nil {
		t.Error("changes and events should encode as empty arrays")
	}
}

func TestLayoutState(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, v := newTestServer(t, view.WithStore(st))

	rec := do(t, s, http.MethodGet, "/layout/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	got, err := layout.DecodeJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != layout.KindRandom {
		t.Errorf("kind = %s, want random", got.Kind)
	}

	rec = do(t, s, http.MethodPut, "/layout/state", `{"kind":"circular","circular":{"fixed_radius":80}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body)
	}
	if v.Layout().Kind() != layout.KindCircular {
		t.Errorf("layout kind = %s", v.Layout().Kind())
	}
	if _, ok, _ := st.Get(context.Background(), v.StateKey()); !ok {
		t.Error("PUT did not persist the state")
	}

	rec = do(t, s, http.MethodPut, "/layout/state", `{"kind":"spiral"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind status = %d, want 400", rec.Code)
	}
	var e errorBody
	decodeBody(t, rec, &e)
	if e.Code != gverrors.ErrCodeConfiguration && e.Code != gverrors.ErrCodeInvalidInput {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestLayoutResetAndFastForward(t *testing.T) {
	s, v := newTestServer(t, view.WithLayoutState(layout.DefaultState(layout.KindForceDirected)))

	rec := do(t, s, http.MethodPost, "/layout/fast-forward", fastForwardRequest{Mode: layout.ModeSteps, Steps: 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res layout.Result
	decodeBody(t, rec, &res)
	if res.Steps != 5 {
		t.Errorf("steps = %d, want 5", res.Steps)
	}

	rec = do(t, s, http.MethodPost, "/layout/fast-forward", fastForwardRequest{Mode: layout.ModeBudgeted, Budget: "soon"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad budget status = %d, want 400", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/layout/fast-forward", fastForwardRequest{Mode: "forever"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/layout/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if !v.Layout().Running() {
		t.Error("reset should rearm the layout")
	}
}

func TestFit(t *testing.T) {
	s, v := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/fit?width=200&height=100", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var got transformResponse
	decodeBody(t, rec, &got)
	if got.Zoom != v.Transform().Zoom() {
		t.Errorf("zoom = %v, want %v", got.Zoom, v.Transform().Zoom())
	}
	if v.Viewport() != geom.FromSize(200, 100) {
		t.Errorf("viewport = %v", v.Viewport())
	}
}

func TestGraphEdits(t *testing.T) {
	s, v := newTestServer(t)
	g := v.Graph()

	rec := do(t, s, http.MethodPost, "/nodes", map[string]any{"id": "c", "label": "C", "x": 10, "y": 20})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add node status = %d: %s", rec.Code, rec.Body)
	}
	var node idResponse
	decodeBody(t, rec, &node)
	n, ok := g.Node(graph.NodeID(node.ID))
	if !ok || n.Label != "C" || n.Pos != geom.V(10, 20) {
		t.Fatalf("added node = %+v", n)
	}

	rec = do(t, s, http.MethodPost, "/edges", addEdgeRequest{Source: 0, Target: node.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add edge status = %d: %s", rec.Code, rec.Body)
	}
	var edge idResponse
	decodeBody(t, rec, &edge)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"edge to unknown node", http.MethodPost, "/edges", addEdgeRequest{Source: 0, Target: 99}, http.StatusConflict},
		{"node with edges", http.MethodDelete, "/nodes/0", nil, http.StatusConflict},
		{"unknown node", http.MethodDelete, "/nodes/99", nil, http.StatusNotFound},
		{"bad id", http.MethodDelete, "/nodes/x", nil, http.StatusBadRequest},
		{"unknown edge", http.MethodDelete, "/edges/99", nil, http.StatusNotFound},
		{"malformed body", http.MethodPost, "/edges", "{", http.StatusBadRequest},
		{"negative radius", http.MethodPost, "/nodes", map[string]any{"radius": -1}, http.StatusBadRequest},
		{"delete edge", http.MethodDelete, "/edges/" + strconv.FormatUint(edge.ID, 10), nil, http.StatusNoContent},
		{"cascade delete", http.MethodDelete, "/nodes/0?cascade=true", nil, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}

	if _, ok := g.Node(0); ok {
		t.Error("node 0 survived cascade delete")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edge count = %d, want 0", g.EdgeCount())
	}
}

func TestSnapshotDOT(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/snapshot.dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "digraph G {") || !strings.Contains(body, "->") {
		t.Errorf("dot = %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
}

func TestSnapshotSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering")
	}
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/snapshot.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response is not svg")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{gverrors.InvalidOperation("x"), http.StatusConflict},
		{gverrors.New(gverrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{gverrors.Configuration("x"), http.StatusBadRequest},
		{gverrors.New(gverrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{gverrors.DegenerateGeometry("x"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestServer(t)
	var id string
	s.Update(func(v *view.GraphView) { id = v.ID() })
	if id == "" {
		t.Error("Update did not run")
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	_, v := newTestServer(t)
	s := New(v, WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe = %v", err)
	}
}
