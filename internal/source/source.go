// Package source is an in-memory geometry source: layered GeoJSON features
// indexed with an R-tree, queried the way the map queries its rendered
// features (by viewport, by layer and by attribute).
package source

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/geo"
)

// minExtent keeps degenerate (point) bounds insertable into the R-tree.
const minExtent = 1e-9

// Viewport is the visible part of the map.
type Viewport struct {
	Bound orb.Bound
	Zoom  float64
}

// Layer is a named set of features rendered within a zoom range.
// MaxZoom is exclusive, zero means unbounded.
type Layer struct {
	Name    string
	MinZoom float64
	MaxZoom float64

	features []feature.Raw
	index    *rtreego.Rtree
}

// VisibleAt reports whether the layer renders at zoom.
func (l *Layer) VisibleAt(zoom float64) bool {
	if zoom < l.MinZoom {
		return false
	}
	return l.MaxZoom <= 0 || zoom < l.MaxZoom
}

// Len returns the number of features of the layer.
func (l *Layer) Len() int {
	return len(l.features)
}

type indexed struct {
	pos  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (i indexed) Bounds() rtreego.Rect {
	return i.rect
}

func boundRect(b orb.Bound) rtreego.Rect {
	lengths := []float64{
		max(b.Max[0]-b.Min[0], minExtent),
		max(b.Max[1]-b.Min[1], minExtent),
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
	return rect
}

// NewLayer indexes fs. Features without geometry are kept out of the index.
func NewLayer(name string, minZoom, maxZoom float64, fs []feature.Raw) *Layer {
	l := &Layer{
		Name:     name,
		MinZoom:  minZoom,
		MaxZoom:  maxZoom,
		features: fs,
		index:    rtreego.NewTree(2, 25, 50),
	}

	for i, f := range fs {
		if f.Geometry == nil {
			continue
		}
		l.index.Insert(indexed{pos: i, rect: boundRect(f.Geometry.Bound())})
	}

	return l
}

// LoadLayer reads a GeoJSON FeatureCollection file into a layer.
func LoadLayer(name, path string, minZoom, maxZoom float64) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fs, err := feature.DecodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", name, err)
	}

	log.Info().
		Str("layer", name).
		Str("path", path).
		Int("features", len(fs)).
		Msg("Layer loaded")

	return NewLayer(name, minZoom, maxZoom, fs), nil
}

// search returns the features intersecting rect in source order.
func (l *Layer) search(rect rtreego.Rect) []feature.Raw {
	hits := l.index.SearchIntersect(rect)

	pos := make([]int, 0, len(hits))
	for _, h := range hits {
		pos = append(pos, h.(indexed).pos)
	}
	sort.Ints(pos)

	out := make([]feature.Raw, 0, len(pos))
	for _, p := range pos {
		out = append(out, l.features[p])
	}
	return out
}

// Source holds the layers in drawing order, bottom first.
type Source struct {
	tolerance float64

	mu          sync.RWMutex
	layers      []*Layer
	viewport    Viewport
	hasViewport bool
}

// New returns a source matching tree points within tolerance degrees.
func New(tolerance float64) *Source {
	return &Source{tolerance: tolerance}
}

// AddLayer draws l above the existing layers.
func (s *Source) AddLayer(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
}

// SetViewport records the settled viewport.
func (s *Source) SetViewport(v Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
	s.hasViewport = true
}

// Viewport returns the current viewport, false before the map settled once.
func (s *Source) Viewport() (Viewport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport, s.hasViewport
}

// Rendered returns the features of the named layers (all layers when none
// is named) that are visible in the current viewport. Nothing is rendered
// before the first viewport is set.
func (s *Source) Rendered(layers ...string) []feature.Raw {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasViewport {
		return nil
	}

	rect := boundRect(s.viewport.Bound)
	var out []feature.Raw
	for _, l := range s.pick(layers) {
		if !l.VisibleAt(s.viewport.Zoom) {
			continue
		}
		out = append(out, l.search(rect)...)
	}
	return out
}

// CountTrees counts the rendered tree features whose area name is areaName.
func (s *Source) CountTrees(areaName string) int {
	n := 0
	for _, f := range s.Rendered() {
		if feature.KindOf(f) != feature.KindTree {
			continue
		}
		if name, ok := feature.Text(f.Properties[feature.FieldAreaName]); ok && name == areaName {
			n++
		}
	}
	return n
}

// At returns the topmost visible feature under p. Trees are matched before
// areas so a tree inside a park wins over the park.
func (s *Source) At(p orb.Point, zoom float64) (feature.Raw, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rect := rtreego.Point{p[0], p[1]}.ToRect(max(s.tolerance, minExtent))

	var area *feature.Raw
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if !l.VisibleAt(zoom) {
			continue
		}

		hits := l.search(rect)
		for j := len(hits) - 1; j >= 0; j-- {
			f := hits[j]
			if !geo.Contains(f.Geometry, p, s.tolerance) {
				continue
			}
			if feature.KindOf(f) == feature.KindTree {
				return f, true
			}
			if area == nil {
				area = &f
			}
		}
	}

	if area == nil {
		return feature.Raw{}, false
	}
	return *area, true
}

func (s *Source) pick(names []string) []*Layer {
	if len(names) == 0 {
		return s.layers
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make([]*Layer, 0, len(names))
	for _, l := range s.layers {
		if want[l.Name] {
			out = append(out, l)
		}
	}
	return out
}

// Layers returns the layer names in drawing order.
func (s *Source) Layers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Name
	}
	return out
}
