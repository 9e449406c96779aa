// Package viewer wires pointer, list and viewport events to the selection
// state and the area catalog.
package viewer

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/catalog"
	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/metrics"
	"github.com/woozymasta/greenmap/internal/selection"
	"github.com/woozymasta/greenmap/internal/source"
)

// GeometrySource is the map side the viewer queries.
type GeometrySource interface {
	Rendered(layers ...string) []feature.Raw
	At(p orb.Point, zoom float64) (feature.Raw, bool)
	CountTrees(areaName string) int
	SetViewport(v source.Viewport)
}

// Viewer serializes every event against one selection state and one
// catalog.
type Viewer struct {
	mu sync.Mutex

	state         *selection.State
	catalog       *catalog.Catalog
	source        GeometrySource
	catalogLayers []string
}

// New returns a viewer. catalogLayers restricts which layers feed the
// catalog, every layer when empty.
func New(state *selection.State, cat *catalog.Catalog, src GeometrySource, catalogLayers []string) *Viewer {
	return &Viewer{
		state:         state,
		catalog:       cat,
		source:        src,
		catalogLayers: catalogLayers,
	}
}

// State returns the selection state.
func (v *Viewer) State() *selection.State { return v.state }

// Catalog returns the area catalog.
func (v *Viewer) Catalog() *catalog.Catalog { return v.catalog }

// Select normalizes and commits f. Areas without a known tree count fall
// back to counting the rendered trees of the same area. When f has no
// centroid, pointer (if any) becomes the directions target.
func (v *Viewer) Select(f feature.Raw, pointer *orb.Point) selection.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectLocked(f, pointer)
}

func (v *Viewer) selectLocked(f feature.Raw, pointer *orb.Point) selection.Selection {
	sel := selection.Normalize(f)

	if sel.Kind == feature.KindArea && sel.KPIs.Trees == nil && sel.AreaName != "" && v.source != nil {
		if n := v.source.CountTrees(sel.AreaName); n > 0 {
			count := float64(n)
			sel.KPIs.Trees = &count
			metrics.TreeCountFallbacksTotal.Inc()
		}
	}

	if sel.Centroid == nil && pointer != nil {
		metrics.CentroidFallbacksTotal.Inc()
	}
	sel = v.state.Commit(sel, pointer)
	metrics.SelectionsTotal.WithLabelValues(string(sel.Kind)).Inc()

	return sel
}

// Click selects the feature under the pointer. A miss is a no-op and the
// previous selection stays displayed.
func (v *Viewer) Click(p orb.Point, zoom float64) (selection.Selection, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	f, ok := v.source.At(p, zoom)
	if !ok {
		metrics.PointerMissesTotal.Inc()
		log.Debug().
			Float64("lng", p.Lon()).
			Float64("lat", p.Lat()).
			Msg("No feature under pointer")
		return selection.Selection{}, false
	}

	return v.selectLocked(f, &p), true
}

// SelectEntry selects a catalog entry picked from the search list.
func (v *Viewer) SelectEntry(identity string) (selection.Selection, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.catalog.Get(identity)
	if !ok {
		return selection.Selection{}, false
	}
	return v.selectLocked(e.Feature, nil), true
}

// ViewportSettled records the viewport and merges the newly rendered
// areas into the catalog. It returns how many entries were added.
func (v *Viewer) ViewportSettled(vp source.Viewport) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.source.SetViewport(vp)

	added := v.catalog.Merge(v.source.Rendered(v.catalogLayers...))
	metrics.CatalogEntries.Set(float64(v.catalog.Len()))

	return added
}

// Seeder returns the initial catalog population routine.
func (v *Viewer) Seeder(b catalog.Backoff) *catalog.Seeder {
	return &catalog.Seeder{
		Catalog: v.catalog,
		Backoff: b,
		Query: func(context.Context) ([]feature.Raw, error) {
			return v.source.Rendered(v.catalogLayers...), nil
		},
		OnAttempt: func(_, found int) {
			outcome := "empty"
			if found > 0 {
				outcome = "found"
			}
			metrics.CatalogSeedAttemptsTotal.WithLabelValues(outcome).Inc()
			metrics.CatalogEntries.Set(float64(v.catalog.Len()))
		},
	}
}
