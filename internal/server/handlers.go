package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
)

var errMissingDataset = errors.New(errors.ErrCodeInvalidInput, "request has no dataset")

// PathRequest is the body of POST /v1/path.
type PathRequest struct {
	Dataset json.RawMessage `json:"dataset"`
	Start   string          `json:"start"`
	End     string          `json:"end"`
}

// PathResponse lists the concept IDs on a shortest path, empty if none.
type PathResponse struct {
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

// FilterRequest is the body of POST /v1/filter.
type FilterRequest struct {
	Dataset    json.RawMessage `json:"dataset"`
	Objects    []string        `json:"objects"`
	Attributes []string        `json:"attributes"`
}

// FilterResponse maps every concept ID to its color.
type FilterResponse struct {
	Colors map[string]lattice.Color `json:"colors"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Dataset) == 0 {
		s.writeError(w, r, errMissingDataset)
		return
	}
	for _, id := range []string{req.Start, req.End} {
		if err := errors.ValidateConceptID(id); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	opts := s.defaults
	opts.Logger = nil
	res, err := s.runner.Execute(r.Context(), req.Dataset, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l := res.Lattice()
	for _, id := range []string{req.Start, req.End} {
		if _, ok := l.Resolve(id); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeConceptNotFound, "unknown concept %q", id))
			return
		}
	}
	path := lattice.ShortestPath(l, req.Start, req.End)
	writeJSON(w, http.StatusOK, PathResponse{Path: path, Length: max(len(path)-1, 0)})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Dataset) == 0 {
		s.writeError(w, r, errMissingDataset)
		return
	}

	opts := s.defaults
	opts.Logger = nil
	opts.FilterObjects = req.Objects
	opts.FilterAttributes = req.Attributes
	res, err := s.runner.Execute(r.Context(), req.Dataset, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	colors := res.Colors
	if colors == nil {
		// No tokens: every concept keeps the neutral color.
		colors = lattice.Filter(res.Lattice(), nil, nil)
	}
	writeJSON(w, http.StatusOK, FilterResponse{Colors: colors})
}

// decode reads a JSON envelope that embeds a dataset.
func (s *Server) decode(r *http.Request, v any) error {
	data, err := s.readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
