package selection

import (
	"sync"

	"github.com/brunoga/deep"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/geo"
)

// State is the single source of truth for the current selection. Every
// commit replaces the previous selection and rewrites both highlight
// channels, so at most one of them is ever non-empty.
type State struct {
	sink HighlightSink

	mu         sync.Mutex
	current    *Selection
	lastCenter *orb.Point
}

// NewState returns an empty state publishing highlights to sink.
// A nil sink discards highlight updates.
func NewState(sink HighlightSink) *State {
	if sink == nil {
		sink = discard{}
	}
	return &State{sink: sink}
}

// Select normalizes f and commits it as the current selection.
func (s *State) Select(f feature.Raw) Selection {
	return s.Commit(Normalize(f), nil)
}

// Commit makes sel the current selection. The channel matching sel.Kind
// receives a copy of the highlight geometry, the other one is emptied.
// A known centroid becomes the new directions target; without one,
// fallback (if any) is used instead, under the same lock.
func (s *State) Commit(sel Selection, fallback *orb.Point) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	area, tree := geo.EmptyCollection(), geo.EmptyCollection()
	if sel.Highlight != nil {
		hl := geo.SingleCollection(copyGeometry(sel.Highlight))
		if sel.Kind == feature.KindTree {
			tree = hl
		} else {
			area = hl
		}
	}
	s.sink.SetAreaHighlight(area)
	s.sink.SetTreeHighlight(tree)

	switch {
	case sel.Centroid != nil:
		c := *sel.Centroid
		s.lastCenter = &c
	case fallback != nil:
		c := *fallback
		s.lastCenter = &c
	}

	committed := sel
	s.current = &committed

	log.Debug().
		Str("kind", string(sel.Kind)).
		Str("title", sel.Title).
		Bool("highlight", sel.Highlight != nil).
		Bool("centroid", sel.Centroid != nil).
		Msg("Selection committed")

	return sel
}

// Clear drops the current selection and empties both channels.
// The directions target is kept.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sink.SetAreaHighlight(geo.EmptyCollection())
	s.sink.SetTreeHighlight(geo.EmptyCollection())
	s.current = nil

	log.Debug().Msg("Selection cleared")
}

// SetLastCenter records the directions target, typically the unprojected
// pointer location when the selected geometry has no centroid.
func (s *State) SetLastCenter(p orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCenter = &p
}

// Current returns the current selection, false when nothing is selected.
func (s *State) Current() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Selection{}, false
	}
	return *s.current, true
}

// LastCenter returns the directions target.
func (s *State) LastCenter() (orb.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCenter == nil {
		return orb.Point{}, false
	}
	return *s.lastCenter, true
}

// Directions returns the navigation link for the directions action,
// false while the action is disabled.
func (s *State) Directions() (string, bool) {
	c, ok := s.LastCenter()
	if !ok {
		return "", false
	}
	return geo.DirectionsURL(c), true
}

// copyGeometry detaches the highlight from the caller-owned feature.
func copyGeometry(g orb.Geometry) orb.Geometry {
	switch t := g.(type) {
	case orb.Point:
		return t
	case orb.Polygon:
		return deep.MustCopy(t)
	case orb.MultiPolygon:
		return deep.MustCopy(t)
	}
	return g
}
