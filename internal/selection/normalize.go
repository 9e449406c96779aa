// Package selection turns a raw map feature into the normalized view shown
// in the sidebar and keeps track of the one feature currently selected.
package selection

import (
	"github.com/paulmach/orb"

	"github.com/woozymasta/greenmap/internal/eco"
	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/geo"
)

// KPIs are the five ecological indicators of a selection.
// A nil value means unknown.
type KPIs struct {
	Trees   *float64 `json:"trees" yaml:"trees"`
	CO2SeqT *float64 `json:"co2_seq_t" yaml:"co2_seq_t"`
	PMG     *float64 `json:"pm_g" yaml:"pm_g"`
	RainL   *float64 `json:"rain_l" yaml:"rain_l"`
	EUR     *float64 `json:"eur" yaml:"eur"`
}

// Selection is the normalized result of selecting a feature.
type Selection struct {
	Kind     feature.Kind `json:"kind" yaml:"kind"`
	Key      string       `json:"key" yaml:"key"`
	Title    string       `json:"title" yaml:"title"`
	Subtitle string       `json:"subtitle" yaml:"subtitle"`
	Image    string       `json:"image,omitempty" yaml:"image,omitempty"`
	AreaName string       `json:"area_name,omitempty" yaml:"area_name,omitempty"`
	Centroid *orb.Point   `json:"centroid" yaml:"centroid"`
	Period   string       `json:"period,omitempty" yaml:"period,omitempty"`
	KPIs     KPIs         `json:"kpis" yaml:"kpis"`

	// Highlight is the geometry for the channel matching Kind, nil when the
	// feature geometry does not fit its kind.
	Highlight orb.Geometry `json:"-" yaml:"-"`
}

// Normalize classifies f and extracts its identity, centroid and KPIs.
// It never fails: fields that cannot be decoded are left nil.
func Normalize(f feature.Raw) Selection {
	id := feature.Classify(f)

	sel := Selection{
		Kind:     id.Kind,
		Key:      feature.Key(f),
		Title:    id.Title,
		Subtitle: id.Subtitle,
	}

	if v, ok := feature.Lookup(f, feature.FieldImageURL); ok {
		sel.Image, _ = feature.Text(v)
	}
	if c, ok := geo.Centroid(f.Geometry); ok {
		sel.Centroid = &c
	}

	rec := record(f)
	if rec != nil {
		sel.Period = rec.Period
	}

	switch id.Kind {
	case feature.KindTree:
		sel.AreaName, _ = feature.First(f, []feature.Accessor{feature.Prop(feature.FieldAreaName)})
		sel.KPIs = treeKPIs(f, rec)
		if geo.IsPoint(f.Geometry) {
			sel.Highlight = f.Geometry
		}
	default:
		sel.AreaName, _ = feature.First(f, []feature.Accessor{feature.Prop(feature.FieldName)})
		sel.KPIs = areaKPIs(f, rec)
		if geo.IsArea(f.Geometry) {
			sel.Highlight = f.Geometry
		}
	}

	return sel
}

// record decodes the yearly ecology field, falling back to the flat
// property bag when the field is missing or undecodable.
func record(f feature.Raw) *eco.Record {
	if rec := eco.DecodeEcoYear(f.Properties[feature.FieldEcoByYear]); rec != nil {
		return rec
	}

	get, _ := eco.Fields(map[string]any(f.Properties))
	return eco.RecordFrom(get)
}

func treeKPIs(f feature.Raw, rec *eco.Record) KPIs {
	one := 1.0
	k := KPIs{
		Trees:   &one,
		CO2SeqT: rec.CO2SeqTonnes(),
		EUR:     number(f, feature.FieldTreeValue),
	}
	if rec != nil {
		k.PMG = rec.PM10CaptureG
		k.RainL = rec.H2ORetentionL
	}
	return k
}

func areaKPIs(f feature.Raw, rec *eco.Record) KPIs {
	count, _ := feature.Lookup(f, feature.TreeCountFields...)

	k := KPIs{
		Trees:   eco.DecodeTreeCount(f.Properties[feature.FieldTrees], eco.ParseNumber(count)),
		CO2SeqT: rec.CO2SeqTonnes(),
		EUR:     number(f, feature.AreaValueFields...),
	}
	if rec != nil {
		k.PMG = sumPresent(rec.PM10CaptureG, rec.PM25CaptureG)
		k.RainL = rec.H2ORetentionL
		if k.RainL == nil {
			k.RainL = rec.H2OPrecipitationL
		}
	}
	return k
}

// number parses the first present property among keys.
func number(f feature.Raw, keys ...string) *float64 {
	v, ok := feature.Lookup(f, keys...)
	if !ok {
		return nil
	}
	return eco.Finite(eco.ParseNumber(v))
}

// sumPresent adds the known values, missing addends count as zero.
// The result is nil only when every addend is missing.
func sumPresent(vals ...*float64) *float64 {
	var (
		sum   float64
		known bool
	)
	for _, v := range vals {
		if v == nil {
			continue
		}
		sum += *v
		known = true
	}
	if !known {
		return nil
	}
	return &sum
}
