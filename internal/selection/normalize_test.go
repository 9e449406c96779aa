package selection

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/greenmap/internal/feature"
)

var square = orb.Polygon{{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}}

func treeFeature(props geojson.Properties) feature.Raw {
	props["element_type"] = "tree"
	return feature.Raw{Geometry: orb.Point{9.19, 45.46}, Properties: props}
}

func areaFeature(props geojson.Properties) feature.Raw {
	return feature.Raw{Geometry: square, Properties: props}
}

func wantValue(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func wantNil(t *testing.T, name string, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %v, want nil", name, *got)
	}
}

func TestNormalizeTreeAlwaysCountsOne(t *testing.T) {
	sel := Normalize(treeFeature(geojson.Properties{
		"numerosita":       50,
		"number_of_plants": 12,
		"trees":            `[{"numerosita": 9}]`,
	}))

	if sel.Kind != feature.KindTree {
		t.Fatalf("kind = %s", sel.Kind)
	}
	wantValue(t, "trees", sel.KPIs.Trees, 1)
}

func TestNormalizeTree(t *testing.T) {
	sel := Normalize(treeFeature(geojson.Properties{
		"common_name":        "Bagolaro",
		"scientific_name":    "Celtis australis",
		"area_name":          "Parco Nord",
		"url":                "https://example.org/celtis.jpg",
		"economic_value_eur": "1.250,50",
		"eco_by_year":        `{"2024": {"co2_absorption_kg": 2500, "pm10_capture_g": 40, "pm25_capture_g": 15, "h2o_retention_l": 900}}`,
	}))

	if sel.Title != "Bagolaro" || sel.Subtitle != "Celtis australis" {
		t.Errorf("identity = %q / %q", sel.Title, sel.Subtitle)
	}
	if sel.AreaName != "Parco Nord" || sel.Image == "" || sel.Period != "2024" {
		t.Errorf("unexpected selection %+v", sel)
	}
	wantValue(t, "co2", sel.KPIs.CO2SeqT, 2.5)
	// PM10 only for trees
	wantValue(t, "pm", sel.KPIs.PMG, 40)
	wantValue(t, "rain", sel.KPIs.RainL, 900)
	wantValue(t, "eur", sel.KPIs.EUR, 1250.5)

	if sel.Centroid == nil || *sel.Centroid != (orb.Point{9.19, 45.46}) {
		t.Errorf("centroid = %v", sel.Centroid)
	}
	if _, ok := sel.Highlight.(orb.Point); !ok {
		t.Errorf("highlight = %#v", sel.Highlight)
	}
}

func TestNormalizeArea(t *testing.T) {
	sel := Normalize(areaFeature(geojson.Properties{
		"name":                     "Parco Sempione",
		"trees":                    `[{"numerosita": "120"}, {"numerosita": 30}]`,
		"co2_absorption_value_eur": nil,
		"co2_stock_value_eur":      "3.400",
		"energy_value_eur":         99,
		"eco_by_year":              `[{"co2_absorption_kg": 5000, "pm10_capture_g": 30, "pm25_capture_g": 12, "h2o_precipitation_l": 700}]`,
	}))

	if sel.Kind != feature.KindArea || sel.Title != "Parco Sempione" || sel.Subtitle != "" {
		t.Fatalf("identity = %+v", sel)
	}
	wantValue(t, "trees", sel.KPIs.Trees, 150)
	wantValue(t, "co2", sel.KPIs.CO2SeqT, 5)
	wantValue(t, "pm", sel.KPIs.PMG, 42)
	wantValue(t, "rain", sel.KPIs.RainL, 700)
	wantValue(t, "eur", sel.KPIs.EUR, 3400)

	if sel.Centroid == nil || *sel.Centroid != (orb.Point{0.8, 0.8}) {
		t.Errorf("centroid = %v", sel.Centroid)
	}
	if sel.Highlight == nil {
		t.Error("area highlight missing")
	}
}

func TestNormalizeDirectCountWins(t *testing.T) {
	sel := Normalize(areaFeature(geojson.Properties{
		"trees_count": "8",
		"trees":       `[{"numerosita": 100}]`,
	}))
	wantValue(t, "trees", sel.KPIs.Trees, 8)

	sel = Normalize(areaFeature(geojson.Properties{"trees": `[{"numerosita": 0}]`}))
	wantNil(t, "trees", sel.KPIs.Trees)
}

func TestNormalizePMDivergence(t *testing.T) {
	props := func() geojson.Properties {
		return geojson.Properties{"pm10_capture_g": 30, "pm25_capture_g": nil}
	}

	area := Normalize(areaFeature(props()))
	wantValue(t, "area pm", area.KPIs.PMG, 30)

	tree := Normalize(treeFeature(props()))
	wantValue(t, "tree pm", tree.KPIs.PMG, 30)

	both := geojson.Properties{"pm10_capture_g": 30, "pm25_capture_g": 5}
	wantValue(t, "area pm sum", Normalize(areaFeature(both)).KPIs.PMG, 35)
	both = geojson.Properties{"pm10_capture_g": 30, "pm25_capture_g": 5}
	wantValue(t, "tree pm10 only", Normalize(treeFeature(both)).KPIs.PMG, 30)

	wantNil(t, "no pm", Normalize(areaFeature(geojson.Properties{})).KPIs.PMG)
	wantValue(t, "pm25 only", Normalize(areaFeature(geojson.Properties{"pm25_capture_g": "7"})).KPIs.PMG, 7)
}

func TestNormalizeDegradesGracefully(t *testing.T) {
	sel := Normalize(feature.Raw{
		Geometry: orb.LineString{{0, 0}, {1, 1}},
		Properties: geojson.Properties{
			"eco_by_year": "{not json",
			"trees":       "[",
		},
	})

	if sel.Kind != feature.KindArea || sel.Title != "Green Area" {
		t.Errorf("identity = %+v", sel)
	}
	if sel.Centroid != nil {
		t.Errorf("centroid = %v, want nil", sel.Centroid)
	}
	if sel.Highlight != nil {
		t.Errorf("line string must not be highlighted")
	}
	wantNil(t, "trees", sel.KPIs.Trees)
	wantNil(t, "co2", sel.KPIs.CO2SeqT)
	wantNil(t, "eur", sel.KPIs.EUR)
}

func TestNormalizeFlatFallback(t *testing.T) {
	sel := Normalize(areaFeature(geojson.Properties{
		"co2_sequestered_kg": "1.500",
		"h2o_retention_l":    40,
	}))
	wantValue(t, "co2", sel.KPIs.CO2SeqT, 1.5)
	wantValue(t, "rain", sel.KPIs.RainL, 40)
}

func TestNormalizeAreaPointHasNoHighlight(t *testing.T) {
	sel := Normalize(feature.Raw{Geometry: orb.Point{1, 1}, Properties: geojson.Properties{"name": "Municipio 3"}})
	if sel.Kind != feature.KindArea {
		t.Fatalf("kind = %s", sel.Kind)
	}
	if sel.Highlight != nil {
		t.Error("point geometry must not fill the area channel")
	}
	if sel.Centroid == nil {
		t.Error("point centroid missing")
	}
}

func TestNormalizeEmptyPolygonHasNoHighlight(t *testing.T) {
	for _, g := range []orb.Geometry{orb.Polygon{}, orb.Polygon{{}}, orb.MultiPolygon{{}}} {
		sel := Normalize(feature.Raw{Geometry: g, Properties: geojson.Properties{"name": "Vuoto"}})
		if sel.Highlight != nil {
			t.Errorf("%#v: empty polygon must not fill the area channel", g)
		}
		if sel.Centroid != nil {
			t.Errorf("%#v: centroid = %v", g, sel.Centroid)
		}
	}
}
