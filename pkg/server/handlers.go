package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphview/pkg/buildinfo"
	"github.com/matzehuels/graphview/pkg/changes"
	gverrors "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/interaction"
	gvio "github.com/matzehuels/graphview/pkg/io"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/render"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Version buildinfo.Info `json:"version"`
	View    string         `json:"view"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id := s.view.ID()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Current(), View: id})
}

// viewportQuery reads width and height; missing values keep the view's
// current viewport.
func viewportQuery(r *http.Request, current geom.Rect) (geom.Rect, error) {
	q := r.URL.Query()
	if q.Get("width") == "" && q.Get("height") == "" {
		return current, nil
	}
	w, err := strconv.ParseFloat(q.Get("width"), 64)
	if err != nil {
		return geom.Rect{}, gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "width")
	}
	h, err := strconv.ParseFloat(q.Get("height"), 64)
	if err != nil {
		return geom.Rect{}, gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "height")
	}
	if err := gverrors.First(gverrors.ValidatePositive("width", w), gverrors.ValidatePositive("height", h)); err != nil {
		return geom.Rect{}, gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "viewport")
	}
	return geom.FromSize(w, h), nil
}

// handleFrame returns the current frame without advancing the view.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vp, err := viewportQuery(r, s.view.Viewport())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.Build(s.view.Graph(), s.view.Transform(), vp, s.view.Style()))
}

type inputRequest struct {
	Input    interaction.Input `json:"input"`
	Viewport *geom.Rect        `json:"viewport,omitempty"`
}

type inputResponse struct {
	Frame   render.Frame     `json:"frame"`
	Changes []changes.Change `json:"changes"`
	Events  []changes.Event  `json:"events"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := decode(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Input.Time.IsZero() {
		req.Input.Time = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vp := s.view.Viewport()
	if req.Viewport != nil {
		vp = *req.Viewport
	}
	frame := s.view.Frame(r.Context(), req.Input, vp)
	writeJSON(w, http.StatusOK, inputResponse{
		Frame:   frame,
		Changes: nonNil(s.view.DrainChanges()),
		Events:  nonNil(s.view.DrainEvents()),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vp, err := viewportQuery(r, s.view.Viewport())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.view.Fit(vp)
	t := s.view.Transform()
	writeJSON(w, http.StatusOK, transformResponse{Zoom: t.Zoom(), Pan: t.Pan()})
}

type transformResponse struct {
	Zoom float64   `json:"zoom"`
	Pan  geom.Vec2 `json:"pan"`
}

// =============================================================================
// Layout
// =============================================================================

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.view.LayoutState()
	s.mu.Unlock()

	data, err := layout.EncodeJSON(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handlePutState applies a layout state, switching layouts if the kind
// differs, and persists it to the view's store.
func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	var state layout.State
	if err := decode(r, &state, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.view.SetLayout(state); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.view.SaveState(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.ResetLayout()
	s.writeState(w, r)
}

// writeState writes the current layout state; the caller holds s.mu.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request) {
	data, err := layout.EncodeJSON(s.view.LayoutState())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// fastForwardRequest mirrors layout.FastForward with a human-readable
// budget such as "250ms".
type fastForwardRequest struct {
	Mode    layout.Mode `json:"mode"`
	Steps   int         `json:"steps"`
	Budget  string      `json:"budget"`
	Epsilon float64     `json:"epsilon"`
	Force   bool        `json:"force"`
}

func (req fastForwardRequest) fastForward() (layout.FastForward, error) {
	ff := layout.FastForward{
		Mode:    req.Mode,
		Steps:   req.Steps,
		Epsilon: req.Epsilon,
		Force:   req.Force,
	}
	if req.Budget != "" {
		d, err := time.ParseDuration(req.Budget)
		if err != nil {
			return ff, gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "budget")
		}
		ff.Budget = d
	}
	return ff, nil
}

func (s *Server) handleFastForward(w http.ResponseWriter, r *http.Request) {
	var req fastForwardRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	ff, err := req.fastForward()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.view.FastForward(r.Context(), ff)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Graph edits
// =============================================================================

type addNodeRequest struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	X      *float64       `json:"x"`
	Y      *float64       `json:"y"`
	Color  string         `json:"color"`
	Radius float64        `json:"radius"`
	Meta   map[string]any `json:"meta"`
}

type idResponse struct {
	ID uint64 `json:"id"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := decode(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Radius < 0 {
		s.writeError(w, r, gverrors.New(gverrors.ErrCodeInvalidInput, "radius must not be negative"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.view.Graph()
	payload := gvio.NodeData{ID: req.ID, Meta: req.Meta}
	var id graph.NodeID
	if req.X != nil && req.Y != nil {
		pos := geom.V(*req.X, *req.Y)
		if !pos.Finite() {
			s.writeError(w, r, gverrors.New(gverrors.ErrCodeInvalidInput, "position must be finite"))
			return
		}
		id = g.AddNodeAt(payload, pos)
	} else {
		id = g.AddNode(payload)
	}
	n, _ := g.Node(id)
	n.Label = req.Label
	n.Color = req.Color
	if req.Radius > 0 {
		n.Radius = req.Radius
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: uint64(id)})
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cascade := r.URL.Query().Get("cascade") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.view.Graph()
	if _, ok := g.Node(graph.NodeID(id)); !ok {
		s.writeError(w, r, gverrors.New(gverrors.ErrCodeNotFound, "node %d not found", id))
		return
	}
	if cascade {
		err = g.RemoveNodeCascade(graph.NodeID(id))
	} else {
		err = g.RemoveNode(graph.NodeID(id))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.view.ResetInteraction()
	w.WriteHeader(http.StatusNoContent)
}

type addEdgeRequest struct {
	Source uint64         `json:"source"`
	Target uint64         `json:"target"`
	Label  string         `json:"label"`
	Color  string         `json:"color"`
	Width  float64        `json:"width"`
	Meta   map[string]any `json:"meta"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req addEdgeRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width < 0 {
		s.writeError(w, r, gverrors.New(gverrors.ErrCodeInvalidInput, "width must not be negative"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.view.Graph()
	id, err := g.AddEdge(graph.NodeID(req.Source), graph.NodeID(req.Target), gvio.EdgeData{Meta: req.Meta})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, _ := g.Edge(id)
	e.Label = req.Label
	e.Color = req.Color
	if req.Width > 0 {
		e.Width = req.Width
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: uint64(id)})
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.view.Graph()
	if _, ok := g.Edge(graph.EdgeID(id)); !ok {
		s.writeError(w, r, gverrors.New(gverrors.ErrCodeNotFound, "edge %d not found", id))
		return
	}
	if err := g.RemoveEdge(graph.EdgeID(id)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.view.ResetInteraction()
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "invalid id %q", raw)
	}
	return id, nil
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) snapshotDOT(r *http.Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.view.Style()
	labels := st.Labels || r.URL.Query().Get("labels") == "true"
	return render.ToDOT(s.view.Graph(), render.DOTOptions{Labels: labels, Style: &st})
}

func (s *Server) handleSnapshotDOT(w http.ResponseWriter, r *http.Request) {
	dot := s.snapshotDOT(r)
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

// handleSnapshotSVG renders outside the lock; Graphviz works on the DOT
// text only.
func (s *Server) handleSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := render.RenderSVG(r.Context(), s.snapshotDOT(r))
	if err != nil {
		s.writeError(w, r, gverrors.Wrap(gverrors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
