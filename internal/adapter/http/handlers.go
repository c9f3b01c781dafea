package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/crash-map-dashboard/internal/chart"
	"github.com/couchcryptid/crash-map-dashboard/internal/view"
)

//go:embed static/index.html
var indexHTML []byte

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML) //nolint:errcheck // client went away; nothing to do
}

func (s *Server) handleControls(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.binding.Controls())
}

// viewsResponse mirrors view.Update without a session.
type viewsResponse struct {
	State  view.State   `json:"state"`
	Panels []view.Panel `json:"panels"`
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parseState(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, viewsResponse{State: st, Panels: s.binding.Render(st)})
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parseState(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.binding.Points(st))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parseState(w, r)
	if !ok {
		return
	}
	series, applicable := s.binding.Series(st)
	if !applicable {
		writeError(w, http.StatusConflict, view.ErrNotApplicable)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, series)
}

func (s *Server) handleSeriesPNG(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parseState(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := s.binding.RenderSeriesPNG(&buf, st)
	switch {
	case errors.Is(err, view.ErrNotApplicable):
		writeError(w, http.StatusConflict, err)
		return
	case errors.Is(err, chart.ErrNoData):
		writeError(w, http.StatusNotFound, errors.New(view.NoDataTitle(st.Category, st.YearRange.String())))
		return
	case err != nil:
		s.logger.Error("series png render failed", "error", err, "category", st.Category)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away; nothing to do
}

// featureCollection wraps the backdrop features for clients that want plain GeoJSON.
type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

func (s *Server) handleGeo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	sharedobs.WriteJSON(w, http.StatusOK, featureCollection{Type: "FeatureCollection", Features: s.binding.Backdrop()})
}

// parseState overlays query parameters on the initial state and validates
// the result, writing a 400 on failure.
func (s *Server) parseState(w http.ResponseWriter, r *http.Request) (view.State, bool) {
	st, err := stateFromQuery(s.binding.InitialState(), r.URL.Query())
	if err == nil {
		err = s.binding.Validate(st)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return view.State{}, false
	}
	return st, true
}

// stateFromQuery reads category, single, year, start and end.
func stateFromQuery(st view.State, q url.Values) (view.State, error) {
	if v := q.Get("category"); v != "" {
		st.Category = v
	}
	if v := q.Get("single"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return st, fmt.Errorf("%w: single: %q", view.ErrInvalidValue, v)
		}
		st.SingleMode = b
	}
	for _, p := range []struct {
		name string
		dest *int
	}{
		{"year", &st.SingleYear},
		{"start", &st.YearRange.Start},
		{"end", &st.YearRange.End},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return st, fmt.Errorf("%w: %s: %q", view.ErrInvalidValue, p.name, v)
		}
		*p.dest = n
	}
	return st, nil
}
