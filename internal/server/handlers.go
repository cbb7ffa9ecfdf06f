package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Errze/note-bad-ideas/pkg/buildinfo"
	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type groupsResponse struct {
	Groups any `json:"groups"`
}

type graphResponse struct {
	Group       string             `json:"group"`
	Nodes       []graph.Node       `json:"nodes"`
	Edges       []graph.Edge       `json:"edges"`
	Diagnostics *graph.Diagnostics `json:"diagnostics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.src.Groups(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, groupsResponse{Groups: groups})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	id, err := groupParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	g, err := s.graphFor(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, graphResponse{Group: id, Nodes: g.Nodes, Edges: g.Edges, Diagnostics: g.Diagnostics})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	id, err := groupParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	algo, c, err := layoutQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	snap, err := s.snapshotFor(r.Context(), id, algo, c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap.Scene())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id, err := groupParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	f, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "render"))
		return
	}
	algo, c, err := layoutQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	snap, err := s.snapshotFor(r.Context(), id, algo, c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := s.cfg.Layout
	if algo != "" {
		opts.Algorithm = algo
	}
	if c != (layout.Canvas{}) {
		opts.Width, opts.Height = c.Width, c.Height
	}
	opts.Labels = r.URL.Query().Get("labels") != "false"

	data, hit, err := s.runner.RenderWithCacheInfo(r.Context(), snap, f, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	respondBytes(w, f.ContentType(), data)
}

func groupParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "group")
	if err := errors.ValidateGroupID(id); err != nil {
		return "", err
	}
	return id, nil
}

// layoutQuery reads ?algorithm=&width=&height=. Absent values are zero and
// mean "use the group's current setting".
func layoutQuery(r *http.Request) (layout.Algorithm, layout.Canvas, error) {
	q := r.URL.Query()

	var algo layout.Algorithm
	if v := q.Get("algorithm"); v != "" {
		a, err := layout.ParseAlgorithm(v)
		if err != nil {
			return "", layout.Canvas{}, errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "layout")
		}
		algo = a
	}

	var c layout.Canvas
	wv, hv := q.Get("width"), q.Get("height")
	if wv == "" && hv == "" {
		return algo, c, nil
	}
	w, werr := strconv.ParseFloat(wv, 64)
	h, herr := strconv.ParseFloat(hv, 64)
	if werr != nil || herr != nil || !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return "", layout.Canvas{}, errors.New(errors.ErrCodeInvalidCanvas, "width and height must both be positive numbers")
	}
	return algo, layout.Canvas{Width: w, Height: h}, nil
}
