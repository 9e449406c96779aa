// Package feature holds the raw map features delivered by the geometry
// source together with the rules that classify and identify them.
package feature

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Raw is a feature as supplied by the map: an optional identifier, a
// geometry and a loosely typed property bag. It is treated as immutable.
type Raw struct {
	ID         any
	Geometry   orb.Geometry
	Properties geojson.Properties
}

type rawJSON struct {
	ID         any               `json:"id,omitempty"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// Decode parses a single GeoJSON feature. Nested objects inside the
// properties keep their document key order. A geometry that cannot be
// decoded is dropped and the feature keeps its properties.
func Decode(data []byte) (Raw, error) {
	var aux rawJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return Raw{}, fmt.Errorf("decode feature: %w", err)
	}

	f := Raw{ID: aux.ID, Geometry: decodeGeometry(aux.Geometry)}

	props, err := decodeProperties(aux.Properties)
	if err != nil {
		return Raw{}, err
	}
	f.Properties = props

	return f, nil
}

// DecodeCollection parses a GeoJSON FeatureCollection.
func DecodeCollection(data []byte) ([]Raw, error) {
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	out := make([]Raw, 0, len(fc.Features))
	for i, raw := range fc.Features {
		f, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, f)
	}

	return out, nil
}

func decodeGeometry(raw json.RawMessage) orb.Geometry {
	if isNull(raw) {
		return nil
	}

	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		log.Debug().Err(err).Msg("Invalid feature geometry dropped")
		return nil
	}
	return g.Geometry()
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeProperties(raw json.RawMessage) (geojson.Properties, error) {
	props := geojson.Properties{}
	if isNull(raw) {
		return props, nil
	}

	o := orderedmap.New()
	if err := json.Unmarshal(raw, o); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		props[k] = v
	}

	return props, nil
}

// FromGeoJSON wraps an orb GeoJSON feature.
func FromGeoJSON(f *geojson.Feature) Raw {
	if f == nil {
		return Raw{}
	}
	props := f.Properties
	if props == nil {
		props = geojson.Properties{}
	}
	return Raw{ID: f.ID, Geometry: f.Geometry, Properties: props}
}

// GeoJSON converts the feature back to an orb GeoJSON feature.
func (f Raw) GeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry)
	gf.ID = f.ID
	if f.Properties != nil {
		gf.Properties = f.Properties
	}
	return gf
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Raw) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*f = decoded
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Raw) MarshalJSON() ([]byte, error) {
	doc := struct {
		ID         any                `json:"id,omitempty"`
		Type       string             `json:"type"`
		Geometry   *geojson.Geometry  `json:"geometry"`
		Properties geojson.Properties `json:"properties"`
	}{
		ID:         f.ID,
		Type:       "Feature",
		Properties: f.Properties,
	}
	if f.Geometry != nil {
		doc.Geometry = geojson.NewGeometry(f.Geometry)
	}
	if doc.Properties == nil {
		doc.Properties = geojson.Properties{}
	}

	return json.Marshal(doc)
}

// GeometryType returns the GeoJSON type name, empty for a missing geometry.
func (f Raw) GeometryType() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.GeoJSONType()
}
