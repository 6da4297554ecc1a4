package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/schemamap/pkg/buildinfo"
	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/pipeline"
	radialsvg "github.com/matzehuels/schemamap/pkg/render/radial"
	"github.com/matzehuels/schemamap/pkg/schema"
	"github.com/matzehuels/schemamap/pkg/session"
	"github.com/matzehuels/schemamap/pkg/view"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:       "image/svg+xml",
	pipeline.FormatGraphviz:  "image/svg+xml",
	pipeline.FormatDOT:       "text/vnd.graphviz",
	pipeline.FormatJSON:      "application/json",
	pipeline.FormatCytoscape: "application/json",
	pipeline.FormatPDF:       "application/pdf",
	pipeline.FormatPNG:       "image/png",
}

type typeInfo struct {
	Name   string      `json:"name"`
	Kind   schema.Kind `json:"kind"`
	Fields int         `json:"fields"`
}

type sessionRequest struct {
	Root     string `json:"root"`
	MaxDepth *int   `json:"max_depth,omitempty"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID        string       `json:"id"`
	Root      string       `json:"root"`
	State     string       `json:"state"`
	Highlight string       `json:"highlight,omitempty"`
	History   []string     `json:"history"`
	ExpiresAt time.Time    `json:"expires_at"`
	Model     *model.Model `json:"model"`
}

type rerootResponse struct {
	Root  string      `json:"root"`
	Delta model.Delta `json:"delta"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"types":  len(s.schema.Types),
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	visible := s.schema.Types.Visible()
	out := make([]typeInfo, len(visible))
	for i, t := range visible {
		out[i] = typeInfo{Name: t.Name, Kind: t.Kind, Fields: len(t.Fields)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"root":  s.schema.DefaultRoot(),
		"types": out,
	})
}

// handleRender renders one artifact through the runner, so repeated
// requests are served from cache.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := s.layout
	opts.Root = chi.URLParam(r, "root")
	opts.Highlight = r.URL.Query().Get("highlight")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if d := r.URL.Query().Get("depth"); d != "" {
		depth, err := strconv.Atoi(d)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid depth %q", d))
			return
		}
		if err := withDepth(&opts, depth); err != nil {
			s.writeError(w, err)
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), s.schema.Types, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", strconv.Quote(result.ModelHash))
	_, _ = w.Write(result.Artifacts[format])
}

// withDepth sets the traversal depth and grows the rings to match.
func withDepth(opts *pipeline.Options, depth int) error {
	if depth < 0 || depth > pipeline.DepthLimit {
		return errors.New(errors.ErrCodeInvalidConfiguration, "depth must be between 0 and %d, got %d", pipeline.DepthLimit, depth)
	}
	opts.MaxDepth = depth
	opts.RingCount = max(opts.RingCount, depth)
	return nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Root == "" {
		req.Root = s.schema.DefaultRoot()
	}
	opts := s.layout
	if req.MaxDepth != nil {
		if err := withDepth(&opts, *req.MaxDepth); err != nil {
			s.writeError(w, err)
			return
		}
	}

	c, err := view.New(s.schema.Types, req.Root, opts, view.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.sessions.Create(r.Context(), c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "root", req.Root)
	s.writeSession(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeSession(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "name is required"))
		return
	}
	s.reroot(w, r, func(c *view.Controller) (model.Delta, error) {
		return c.Select(r.Context(), req.Name)
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.reroot(w, r, func(c *view.Controller) (model.Delta, error) {
		return c.Back(r.Context())
	})
}

func (s *Server) reroot(w http.ResponseWriter, r *http.Request, fn func(*view.Controller) (model.Delta, error)) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp rerootResponse
	err := sess.Do(func(c *view.Controller) error {
		d, err := fn(c)
		resp = rerootResponse{Root: c.Root(), Delta: d}
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = sess.Do(func(c *view.Controller) error {
		c.Hover(req.Name)
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnhover(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = sess.Do(func(c *view.Controller) error {
		c.Unhover()
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var svg []byte
	_ = sess.Do(func(c *view.Controller) error {
		svg = radialsvg.RenderSVG(c.Current(), radialsvg.WithHighlight(c.Highlight()))
		return nil
	})
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	_, _ = w.Write(svg)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeSession(w http.ResponseWriter, status int, sess *session.Session) {
	var resp sessionResponse
	_ = sess.Do(func(c *view.Controller) error {
		resp = sessionResponse{
			ID:        sess.ID,
			Root:      c.Root(),
			State:     c.State().String(),
			Highlight: c.Highlight(),
			History:   c.History(),
			Model:     c.Current(),
		}
		return nil
	})
	resp.ExpiresAt = sess.ExpiresAt()
	writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
