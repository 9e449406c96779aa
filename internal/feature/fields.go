package feature

import (
	"fmt"
	"strconv"
	"strings"
)

// Property names used by the urban-forestry tiles.
const (
	FieldElementType    = "element_type"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldGenericName    = "nome"
	FieldID             = "id"
	FieldCommonName     = "common_name"
	FieldScientificName = "scientific_name"
	FieldAreaName       = "area_name"
	FieldImageURL       = "url"
	FieldEcoByYear      = "eco_by_year"
	FieldTrees          = "trees"

	FieldNumberOfPlants = "number_of_plants"
	FieldTreesCount     = "trees_count"
	FieldNTrees         = "n_trees"

	FieldCO2AbsorptionValue = "co2_absorption_value_eur"
	FieldCO2StockValue      = "co2_stock_value_eur"
	FieldEnergyValue        = "energy_value_eur"
	FieldTreeValue          = "economic_value_eur"
)

// ElementTypeTree marks point features describing a single tree.
const ElementTypeTree = "tree"

// Accessor resolves one candidate text value of a feature.
type Accessor func(f Raw) (string, bool)

// Prop reads a property as display text.
func Prop(key string) Accessor {
	return func(f Raw) (string, bool) {
		return Text(f.Properties[key])
	}
}

// Identifier reads the feature id, falling back to the "id" property.
func Identifier(f Raw) (string, bool) {
	if s, ok := Text(f.ID); ok {
		return s, true
	}
	return Text(f.Properties[FieldID])
}

func areaLabel(f Raw) (string, bool) {
	id, ok := Identifier(f)
	if !ok {
		return "", false
	}
	return "Area " + id, true
}

// Fallback chains, evaluated in order until one yields a value.
var (
	TreeTitleChain    = []Accessor{Prop(FieldCommonName)}
	TreeSubtitleChain = []Accessor{Prop(FieldScientificName)}
	AreaTitleChain    = []Accessor{Prop(FieldName), Prop(FieldDescription), Prop(FieldGenericName), areaLabel}
	IdentityChain     = []Accessor{Prop(FieldName), Prop(FieldDescription), Identifier}
	SearchChains      = [][]Accessor{{Prop(FieldName)}, {Prop(FieldGenericName)}, {Prop(FieldDescription)}, {Identifier}}
)

// Numeric fallback chains, as property names.
var (
	TreeCountFields = []string{FieldNumberOfPlants, FieldTreesCount, FieldNTrees}
	AreaValueFields = []string{FieldCO2AbsorptionValue, FieldCO2StockValue, FieldEnergyValue}
)

// First returns the first value produced by chain.
func First(f Raw, chain []Accessor) (string, bool) {
	for _, get := range chain {
		if s, ok := get(f); ok {
			return s, true
		}
	}
	return "", false
}

// Lookup returns the first present raw property value among keys.
func Lookup(f Raw, keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := f.Properties[k]
		if !ok || !present(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// Text renders a property value as text. Missing values and blank strings
// are reported as absent.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case fmt.Stringer:
		return Text(t.String())
	}
	return fmt.Sprint(v), true
}

func present(v any) bool {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return v != nil
}
