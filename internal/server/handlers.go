package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
	"github.com/lennartvogel/foldview/pkg/observability"
	"github.com/lennartvogel/foldview/pkg/pipeline"
	"github.com/lennartvogel/foldview/pkg/store"
)

type createModelResponse struct {
	ID      string `json:"id"`
	Nodes   int    `json:"nodes"`
	Regions int    `json:"regions"`
}

// regionBounds is one client-reported absolute rectangle, keyed by the
// region's boundary node ID.
type regionBounds struct {
	ID string `json:"id"`
	kgraph.Bounds
}

type viewportRequest struct {
	fold.Viewport

	// Threshold and Buffer override the server defaults for this request.
	Threshold float64 `json:"threshold,omitempty"`
	Buffer    float64 `json:"buffer,omitempty"`

	// Bounds carries absolute region rectangles as currently rendered by
	// the client, refreshing the visibility test's inputs.
	Bounds []regionBounds `json:"bounds,omitempty"`
}

type regionsResponse struct {
	Regions []fold.RegionState `json:"regions"`
}

type moveRequest struct {
	pipeline.Move

	// Direction names the layered layout direction ("right", "left",
	// "down", "up"). Empty uses the server default.
	Direction string `json:"direction,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateModel(w http.ResponseWriter, r *http.Request) {
	var m kgraph.Model
	if err := s.decode(w, r, &m); err != nil {
		s.writeError(w, err)
		return
	}
	root, err := m.Tree()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidModel, err, "build model tree"))
		return
	}

	entry := &model{
		id:     newModelID(),
		root:   root,
		runner: pipeline.NewRunner(s.store, s.logger),
	}
	s.mu.Lock()
	s.models[entry.id] = entry
	s.mu.Unlock()

	dm := entry.runner.DepthMap(r.Context(), entry.id, root)
	s.logger.Info("model registered", "id", entry.id, "nodes", root.Count()-1, "regions", dm.Len())
	s.writeJSON(w, http.StatusCreated, createModelResponse{
		ID:      entry.id,
		Nodes:   root.Count() - 1,
		Regions: dm.Len(),
	})
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "modelID")
	s.mu.Lock()
	_, ok := s.models[id]
	delete(s.models, id)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeModelNotFound, "model %s not registered", id))
		return
	}
	if s.store != nil {
		err := s.store.Delete(r.Context(), id)
		observability.Store().OnStoreDelete(r.Context(), id, err)
		if err != nil {
			s.logger.Warn("deleting stored constraints", "model", id, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	entry := s.lookup(chi.URLParam(r, "modelID"))
	if entry == nil {
		s.writeError(w, errors.New(errors.ErrCodeModelNotFound, "model %s not registered", chi.URLParam(r, "modelID")))
		return
	}
	entry.mu.Lock()
	states := entry.runner.DepthMap(r.Context(), entry.id, entry.root).Snapshot()
	entry.mu.Unlock()
	s.writeJSON(w, http.StatusOK, regionsResponse{Regions: states})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	entry := s.lookup(chi.URLParam(r, "modelID"))
	if entry == nil {
		s.writeError(w, errors.New(errors.ErrCodeModelNotFound, "model %s not registered", chi.URLParam(r, "modelID")))
		return
	}
	var req viewportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Zoom < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidViewport, "zoom must not be negative"))
		return
	}

	opts := s.cfg.Defaults
	if req.Threshold != 0 {
		opts.Threshold = req.Threshold
	}
	if req.Buffer != 0 {
		opts.Buffer = req.Buffer
	}

	entry.mu.Lock()
	dm := entry.runner.DepthMap(r.Context(), entry.id, entry.root)
	for _, b := range req.Bounds {
		if !dm.SetAbsoluteBounds(b.ID, b.Bounds) {
			s.logger.Warn("bounds for unknown region ignored", "model", entry.id, "region", b.ID)
		}
	}
	states := entry.runner.ApplyViewport(r.Context(), entry.id, entry.root, req.Viewport, opts)
	entry.mu.Unlock()

	s.writeJSON(w, http.StatusOK, regionsResponse{Regions: states})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	entry := s.lookup(chi.URLParam(r, "modelID"))
	if entry == nil {
		s.writeError(w, errors.New(errors.ErrCodeModelNotFound, "model %s not registered", chi.URLParam(r, "modelID")))
		return
	}
	var req moveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.cfg.Defaults
	if req.Direction != "" {
		opts.Direction = layered.DirectionFromString(req.Direction)
		if opts.Direction == layered.Undefined && req.Direction != "undefined" {
			s.writeError(w, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q", req.Direction))
			return
		}
	}

	entry.mu.Lock()
	action, err := entry.runner.ResolveMove(r.Context(), entry.id, entry.root, req.Move, opts)
	entry.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := layered.MarshalAction(action)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode action"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleConstraints(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "modelID")
	entry := s.lookup(id)
	if entry == nil {
		s.writeError(w, errors.New(errors.ErrCodeModelNotFound, "model %s not registered", id))
		return
	}
	cs, err := entry.runner.Constraints(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cs == nil {
		cs = &store.ConstraintSet{ModelID: id, Records: []store.ConstraintRecord{}}
	}
	s.writeJSON(w, http.StatusOK, cs)
}

// decode reads a size-capped JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
