package eco

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// Field names of a yearly ecological record.
const (
	FieldCO2AbsorptionKg  = "co2_absorption_kg"
	FieldCO2SequesteredKg = "co2_sequestered_kg"
	FieldPM10CaptureG     = "pm10_capture_g"
	FieldPM25CaptureG     = "pm25_capture_g"
	FieldH2ORetentionL    = "h2o_retention_l"
	FieldH2OPrecipitation = "h2o_precipitation_l"

	// FieldTreeCount is the per-species count inside a tree list.
	FieldTreeCount = "numerosita"
)

// Record is the normalized ecological snapshot for one reporting period.
// Absent or unparsable metrics are nil.
type Record struct {
	Period            string   `json:"period,omitempty" yaml:"period,omitempty"`
	CO2AbsorptionKg   *float64 `json:"co2_absorption_kg,omitempty" yaml:"co2_absorption_kg,omitempty"`
	PM10CaptureG      *float64 `json:"pm10_capture_g,omitempty" yaml:"pm10_capture_g,omitempty"`
	PM25CaptureG      *float64 `json:"pm25_capture_g,omitempty" yaml:"pm25_capture_g,omitempty"`
	H2ORetentionL     *float64 `json:"h2o_retention_l,omitempty" yaml:"h2o_retention_l,omitempty"`
	H2OPrecipitationL *float64 `json:"h2o_precipitation_l,omitempty" yaml:"h2o_precipitation_l,omitempty"`
}

// CO2SeqTonnes converts the absorbed CO2 to tonnes, nil when unknown.
func (r *Record) CO2SeqTonnes() *float64 {
	if r == nil || r.CO2AbsorptionKg == nil {
		return nil
	}
	t := *r.CO2AbsorptionKg / 1000
	return &t
}

// RecordFrom reads the ecological metrics out of any keyed mapping.
// It is used both for decoded yearly entries and for flat property bags.
func RecordFrom(get Getter) *Record {
	if get == nil {
		return nil
	}

	num := func(keys ...string) *float64 {
		for _, k := range keys {
			v, ok := get(k)
			if !ok || v == nil {
				continue
			}
			return Finite(ParseNumber(v))
		}
		return nil
	}

	return &Record{
		CO2AbsorptionKg:   num(FieldCO2AbsorptionKg, FieldCO2SequesteredKg),
		PM10CaptureG:      num(FieldPM10CaptureG),
		PM25CaptureG:      num(FieldPM25CaptureG),
		H2ORetentionL:     num(FieldH2ORetentionL),
		H2OPrecipitationL: num(FieldH2OPrecipitation),
	}
}

// Empty reports whether no metric of the record is known.
func (r *Record) Empty() bool {
	return r == nil ||
		(r.CO2AbsorptionKg == nil && r.PM10CaptureG == nil && r.PM25CaptureG == nil &&
			r.H2ORetentionL == nil && r.H2OPrecipitationL == nil)
}

// DecodeEcoYear decodes a yearly ecological dataset and returns its first
// entry. raw may be a JSON string, a sequence or a keyed mapping; for a
// sequence the first element is used, for a mapping the value at the first
// key. Anything else, including malformed JSON, yields nil.
func DecodeEcoYear(raw any) *Record {
	if falsy(raw) {
		return nil
	}

	v, ok := decodeValue(raw)
	if !ok {
		return nil
	}

	var (
		period string
		entry  any
	)

	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return nil
		}
		entry = t[0]
	default:
		key, val, ok := firstEntry(t)
		if !ok {
			return nil
		}
		period, entry = key, val
	}

	get, ok := Fields(entry)
	if !ok {
		return nil
	}

	rec := RecordFrom(get)
	rec.Period = period
	return rec
}

// DecodeTreeCount returns fallback when it is finite, otherwise the sum of
// the per-species counts of the rawTrees list. A zero sum is reported as
// unknown (nil) rather than as a confident zero.
func DecodeTreeCount(rawTrees any, fallback float64) *float64 {
	if IsFinite(fallback) {
		return &fallback
	}
	if falsy(rawTrees) {
		return nil
	}

	v, ok := decodeValue(rawTrees)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	var sum float64
	for _, item := range list {
		get, ok := Fields(item)
		if !ok {
			continue
		}
		c, _ := get(FieldTreeCount)
		if n := ParseNumber(c); IsFinite(n) {
			sum += n
		}
	}

	if sum == 0 {
		return nil
	}
	return &sum
}

// decodeValue parses JSON text and passes already decoded values through.
// Objects keep their key order.
func decodeValue(raw any) (any, bool) {
	s, ok := raw.(string)
	if !ok {
		return raw, true
	}

	data := []byte(s)
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		o := orderedmap.New()
		if err := json.Unmarshal(data, o); err != nil {
			return nil, false
		}
		return o, true
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case int:
		return t == 0
	case int64:
		return t == 0
	case json.Number:
		return t == "" || t == "0"
	}
	return false
}
