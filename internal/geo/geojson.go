// Package geo handles the geometric side of map features: representative
// points, hit testing and the GeoJSON collections handed to the map.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EmptyCollection returns a FeatureCollection without features.
func EmptyCollection() *geojson.FeatureCollection {
	return geojson.NewFeatureCollection()
}

// SingleCollection wraps one geometry into a FeatureCollection with
// empty properties. A nil geometry yields an empty collection.
func SingleCollection(g orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if g == nil {
		return fc
	}

	f := geojson.NewFeature(g)
	f.Properties = geojson.Properties{}
	fc.Append(f)

	return fc
}

// IsArea reports whether g is a polygonal geometry with at least one
// non-empty outer ring.
func IsArea(g orb.Geometry) bool {
	switch t := g.(type) {
	case orb.Polygon:
		return hasOuterRing(t)
	case orb.MultiPolygon:
		for _, p := range t {
			if hasOuterRing(p) {
				return true
			}
		}
	}
	return false
}

func hasOuterRing(p orb.Polygon) bool {
	return len(p) > 0 && len(p[0]) > 0
}

// IsPoint reports whether g is a point.
func IsPoint(g orb.Geometry) bool {
	_, ok := g.(orb.Point)
	return ok
}
