package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Contains reports whether p lies on g. Polygons use planar containment,
// points match within tolerance degrees on both axes.
func Contains(g orb.Geometry, p orb.Point, tolerance float64) bool {
	switch t := g.(type) {
	case orb.Point:
		return abs(t[0]-p[0]) <= tolerance && abs(t[1]-p[1]) <= tolerance
	case orb.Polygon:
		return planar.PolygonContains(t, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(t, p)
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
