// Package server exposes the viewer over HTTP for the map client.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/greenmap/internal/catalog"
	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/kpi"
	"github.com/woozymasta/greenmap/internal/selection"
	"github.com/woozymasta/greenmap/internal/source"
)

const maxBodyBytes = 4 << 20

type selectRequest struct {
	Feature *feature.Raw `json:"feature"`
	Point   *orb.Point   `json:"point,omitempty"`
}

type clickRequest struct {
	Point *orb.Point `json:"point"`
	Zoom  float64    `json:"zoom"`
}

type viewportRequest struct {
	BBox [4]float64 `json:"bbox"`
	Zoom float64    `json:"zoom"`
}

type catalogSelectRequest struct {
	Identity string `json:"identity"`
}

type selectionView struct {
	selection.Selection
	Display    kpi.Display       `json:"display"`
	Geometry   *geojson.Geometry `json:"highlight_geometry"`
	Directions string            `json:"directions,omitempty"`
}

type catalogItem struct {
	Identity string     `json:"identity"`
	Title    string     `json:"title"`
	Centroid *orb.Point `json:"centroid"`
}

type catalogView struct {
	Status  catalog.Status `json:"status"`
	Total   int            `json:"total"`
	Entries []catalogItem  `json:"entries"`
}

type highlightView struct {
	Area *geojson.FeatureCollection `json:"area"`
	Tree *geojson.FeatureCollection `json:"tree"`
}

// HandleSelect commits a feature delivered by the client.
func (s *ServerContext) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Feature == nil {
		writeError(w, http.StatusBadRequest, errors.New("feature is required"))
		return
	}

	sel := s.Viewer.Select(*req.Feature, req.Point)
	writeJSON(w, http.StatusOK, s.view(sel))
}

// HandleClick selects the feature under the pointer, 204 on a miss.
func (s *ServerContext) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Point == nil {
		writeError(w, http.StatusBadRequest, errors.New("point is required"))
		return
	}

	sel, ok := s.Viewer.Click(*req.Point, req.Zoom)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, s.view(sel))
}

// HandleCatalogSelect selects an entry of the search list.
func (s *ServerContext) HandleCatalogSelect(w http.ResponseWriter, r *http.Request) {
	var req catalogSelectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sel, ok := s.Viewer.SelectEntry(req.Identity)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown catalog entry"))
		return
	}
	writeJSON(w, http.StatusOK, s.view(sel))
}

// HandleSelection returns the current selection.
func (s *ServerContext) HandleSelection(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.Viewer.State().Current()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("nothing selected"))
		return
	}
	writeJSON(w, http.StatusOK, s.view(sel))
}

// HandleClear drops the current selection.
func (s *ServerContext) HandleClear(w http.ResponseWriter, r *http.Request) {
	s.Viewer.State().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// HandleHighlight serves both highlight channels.
func (s *ServerContext) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, highlightView{
		Area: s.Channels.Area(),
		Tree: s.Channels.Tree(),
	})
}

// HandleDirections returns the navigation link of the directions action.
func (s *ServerContext) HandleDirections(w http.ResponseWriter, r *http.Request) {
	url, ok := s.Viewer.State().Directions()
	if !ok {
		writeError(w, http.StatusConflict, errors.New("no directions target"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HandleViewport records a settled viewport and grows the catalog.
func (s *ServerContext) HandleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b := orb.Bound{
		Min: orb.Point{req.BBox[0], req.BBox[1]},
		Max: orb.Point{req.BBox[2], req.BBox[3]},
	}
	if b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] {
		writeError(w, http.StatusBadRequest, errors.New("bbox must be [min_lng, min_lat, max_lng, max_lat]"))
		return
	}

	added := s.Viewer.ViewportSettled(source.Viewport{Bound: b, Zoom: req.Zoom})
	writeJSON(w, http.StatusOK, map[string]int{
		"added": added,
		"total": s.Viewer.Catalog().Len(),
	})
}

// HandleCatalog serves the filtered search list.
func (s *ServerContext) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := s.Viewer.Catalog().Filter(r.URL.Query().Get("q"))

	items := make([]catalogItem, 0, len(entries))
	for _, e := range entries {
		sel := selection.Normalize(e.Feature)
		items = append(items, catalogItem{
			Identity: e.Identity,
			Title:    sel.Title,
			Centroid: sel.Centroid,
		})
	}

	writeJSON(w, http.StatusOK, catalogView{
		Status:  s.Seeder.Status(),
		Total:   s.Viewer.Catalog().Len(),
		Entries: items,
	})
}

func (s *ServerContext) view(sel selection.Selection) selectionView {
	v := selectionView{
		Selection: sel,
		Display:   s.Formatter.Render(sel.KPIs),
	}
	if sel.Highlight != nil {
		v.Geometry = geojson.NewGeometry(sel.Highlight)
	}
	if url, ok := s.Viewer.State().Directions(); ok {
		v.Directions = url
	}
	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
