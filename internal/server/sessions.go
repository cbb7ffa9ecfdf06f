package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/observability"
	"github.com/Errze/note-bad-ideas/pkg/session"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

const maxBodyBytes = 64 << 10

type createSessionRequest struct {
	Group     string  `json:"group" validate:"required"`
	Algorithm string  `json:"algorithm"`
	Width     float64 `json:"width" validate:"gte=0"`
	Height    float64 `json:"height" validate:"gte=0"`
}

type centerRequest struct {
	Node         string  `json:"node" validate:"required"`
	ScreenWidth  float64 `json:"screen_width" validate:"gt=0"`
	ScreenHeight float64 `json:"screen_height" validate:"gt=0"`
}

// eventResponse carries the viewport after an event. Opened is the
// document the front-end should navigate to, set only by open events that
// hit a node.
type eventResponse struct {
	Session *session.Session `json:"session"`
	Opened  string           `json:"opened,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := errors.ValidateGroupID(req.Group); err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := s.cfg.Layout
	if req.Algorithm != "" {
		opts.Algorithm = layout.Algorithm(req.Algorithm)
	}
	if req.Width > 0 || req.Height > 0 {
		opts.Width, opts.Height = req.Width, req.Height
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.respondError(w, r, err)
		return
	}

	// The group must exist; this also warms its workspace.
	if _, err := s.snapshotFor(r.Context(), req.Group, opts.Algorithm, opts.Canvas()); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := session.New(req.Group, opts.Algorithm, opts.Canvas(), s.cfg.SessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	observability.Server().OnSessionEvent(r.Context(), "create")
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "session id"))
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	observability.Server().OnSessionEvent(r.Context(), "delete")
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionEvent applies one pointer or view event to the session's
// viewport and stores the result.
func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var ev viewport.Event
	if err := s.decode(w, r, &ev); err != nil {
		s.respondError(w, r, err)
		return
	}

	var opened string
	err = s.withViewport(r, sess, func(v *viewport.Viewport) error {
		id, err := v.Apply(ev)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "event")
		}
		opened = id
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	observability.Server().OnSessionEvent(r.Context(), string(ev.Type))
	respondJSON(w, http.StatusOK, eventResponse{Session: sess, Opened: opened})
}

// handleSessionCenter pans the session's viewport so a node sits in the
// middle of the front-end's screen.
func (s *Server) handleSessionCenter(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req centerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	err = s.withViewport(r, sess, func(v *viewport.Viewport) error {
		if !v.CenterOn(req.Node, req.ScreenWidth, req.ScreenHeight) {
			return errors.New(errors.ErrCodeNotFound, "node %q is not in the scene", req.Node)
		}
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	observability.Server().OnSessionEvent(r.Context(), "center")
	respondJSON(w, http.StatusOK, eventResponse{Session: sess})
}

// withViewport rebuilds the session's viewport over the current scene of its
// group, runs fn, and saves the resulting state with a refreshed expiry.
func (s *Server) withViewport(r *http.Request, sess *session.Session, fn func(v *viewport.Viewport) error) error {
	ctx := r.Context()
	snap, err := s.snapshotFor(ctx, sess.Group, sess.Algorithm, sess.Canvas)
	if err != nil {
		return err
	}

	v := viewport.New(s.cfg.Viewport, nil)
	v.SetScene(snap.Graph.Nodes, snap.Layout.Positions)
	v.Restore(sess.Viewport)
	if err := fn(v); err != nil {
		return err
	}

	sess.Viewport = v.State()
	sess.Touch(s.cfg.SessionTTL)
	if err := s.sessions.Set(ctx, sess); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session")
	}
	return nil
}

func (s *Server) loadSession(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "session id")
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, err, "session %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	return sess, nil
}

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request: %v", err)
	}
	return nil
}
