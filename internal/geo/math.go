package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Centroid returns a representative point of a geometry.
//
// Points are returned unchanged. Polygons use the arithmetic mean of the
// outer ring vertices, closing vertex included, without area weighting;
// multipolygons only consider the first polygon. Other geometries and
// empty rings yield false, and the caller is expected to supply its own
// fallback point.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	switch t := g.(type) {
	case orb.Point:
		return t, true
	case orb.Polygon:
		return ringMean(t)
	case orb.MultiPolygon:
		if len(t) == 0 {
			return orb.Point{}, false
		}
		return ringMean(t[0])
	}

	return orb.Point{}, false
}

func ringMean(p orb.Polygon) (orb.Point, bool) {
	if len(p) == 0 || len(p[0]) == 0 {
		return orb.Point{}, false
	}

	ring := p[0]
	var sx, sy float64
	for _, c := range ring {
		sx += c[0]
		sy += c[1]
	}

	n := float64(len(ring))
	c := orb.Point{sx / n, sy / n}
	if !finite(c[0]) || !finite(c[1]) {
		return orb.Point{}, false
	}

	return c, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
