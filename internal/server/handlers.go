package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// =============================================================================
// Responses
// =============================================================================

type viewResponse struct {
	ID      string      `json:"id"`
	Nodes   int         `json:"nodes"`
	Visible int         `json:"visible"`
	Chart   chart.Chart `json:"chart"`
}

type pathEntry struct {
	ID          string       `json:"id"`
	Type        org.NodeType `json:"type"`
	Label       string       `json:"label"`
	HierarchyID string       `json:"hierarchy_id,omitempty"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, body)
}

// =============================================================================
// Views
// =============================================================================

// options returns pipeline options built from the server configuration.
func (s *Server) options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Build = s.cfg.BuilderOptions()
	opts.Layout = s.cfg.Layout
	opts.Viewport.Zoom = s.cfg.Viewport.InitialZoom
	opts.Viewport.Position = s.cfg.Viewport.InitialPosition
	opts.Logger = s.logger
	return opts
}

func (s *Server) chartOf(ctx context.Context, v View) chart.Chart {
	start := time.Now()
	positioned := pipeline.Position(v.Forest, s.cfg.Layout)
	opts := s.options()
	opts.Title = v.Title
	opts.Viewport = v.Viewport
	c := pipeline.NewChart(positioned, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(c.Cards), time.Since(start))
	return c
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, v View) {
	c := s.chartOf(r.Context(), v)
	writeJSON(w, status, viewResponse{
		ID:      v.ID,
		Nodes:   org.Count(v.Forest),
		Visible: len(c.Cards),
		Chart:   c,
	})
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := s.options()
	opts.Branch = q.Get("branch")
	opts.Title = q.Get("title")
	if raw := q.Get("expand_depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "expand_depth must be an integer, got %q", raw))
			return
		}
		opts.Build.ExpandDepth = depth
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidPayload, "payload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidPayload, err, "read payload"))
		return
	}

	format := hierarchy.Format(q.Get("format"))
	if format == hierarchy.FormatAuto {
		format = hierarchy.FormatFromContentType(r.Header.Get("Content-Type"))
	}

	start := time.Now()
	p, err := hierarchy.Decode(data, format)
	observability.Pipeline().OnLoadComplete(ctx, "request", kindOf(p), time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start = time.Now()
	forest, err := pipeline.BuildForest(p, opts)
	observability.Pipeline().OnBuildComplete(ctx, kindOf(p), org.Count(forest), time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v := s.store.Create(ctx, View{
		Title:    opts.Title,
		Branch:   opts.Branch,
		Payload:  p,
		Forest:   forest,
		Viewport: opts.Viewport,
	})
	w.Header().Set("Location", "/api/views/"+v.ID)
	s.respondView(w, r, http.StatusCreated, v)
}

func kindOf(p *hierarchy.Payload) string {
	if p == nil {
		return ""
	}
	return string(hierarchy.Detect(p))
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, v)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(r.Context(), id) {
		s.writeError(w, r, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, nodeID := chi.URLParam(r, "id"), chi.URLParam(r, "nodeID")
	var expanded bool
	v, err := s.store.Update(id, func(v *View) error {
		if _, ok := org.Find(v.Forest, nodeID); !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", nodeID)
		}
		v.Forest = org.Toggle(v.Forest, nodeID)
		n, _ := org.Find(v.Forest, nodeID)
		expanded = n.IsExpanded
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.View().OnViewToggled(r.Context(), id, nodeID, expanded)
	s.respondView(w, r, http.StatusOK, v)
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	s.updateForest(w, r, org.ExpandAll)
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	s.updateForest(w, r, org.CollapseAll)
}

func (s *Server) updateForest(w http.ResponseWriter, r *http.Request, fn func([]*org.Node) []*org.Node) {
	v, err := s.store.Update(chi.URLParam(r, "id"), func(v *View) error {
		v.Forest = fn(v.Forest)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, v)
}

type viewportRequest struct {
	Zoom     *float64        `json:"zoom"`
	Position *viewport.Point `json:"position"`
}

// handleViewport stores the client's viewport. Zoom is clamped to the
// configured range; drag and animation flags are client-side only.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid viewport body"))
		return
	}
	v, err := s.store.Update(chi.URLParam(r, "id"), func(v *View) error {
		if req.Zoom != nil {
			v.Viewport.Zoom = s.cfg.Viewport.Clamp(*req.Zoom)
		}
		if req.Position != nil {
			v.Viewport.Position = *req.Position
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Viewport)
}

// =============================================================================
// Rendering and queries
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := s.options()
	opts.Formats = []render.Format{format}
	opts.Renderer = q.Get("renderer")
	opts.NoBadges = q.Get("badges") == "false"
	opts.Detailed = q.Get("detailed") == "true"
	if raw := q.Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %q", raw))
			return
		}
		opts.Scale = scale
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), s.chartOf(r.Context(), v), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// handleBranch returns a chart of one department or unit subtree. The view
// itself is not changed.
func (s *Server) handleBranch(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options()
	opts.Branch = chi.URLParam(r, "hierarchyID")
	opts.Title = v.Title
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	forest, err := pipeline.BuildForest(v.Payload, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.NewChart(pipeline.Position(forest, opts.Layout), opts))
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	path := org.PathTo(v.Forest, nodeID)
	if len(path) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", nodeID))
		return
	}
	out := make([]pathEntry, len(path))
	for i, n := range path {
		out[i] = pathEntry{ID: n.ID, Type: n.Type, Label: n.DisplayLabel(), HierarchyID: n.HierarchyID}
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Views  int            `json:"views"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get(), Views: s.store.Len()})
}
