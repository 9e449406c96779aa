package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/greenmap/internal/feature"
)

func park(name string, x float64) feature.Raw {
	return feature.Raw{
		Geometry:   orb.Polygon{{{x, 0}, {x, 1}, {x + 1, 1}, {x + 1, 0}, {x, 0}}},
		Properties: geojson.Properties{"name": name},
	}
}

func treeAt(p orb.Point, area string) feature.Raw {
	return feature.Raw{
		Geometry:   p,
		Properties: geojson.Properties{"element_type": "tree", "area_name": area},
	}
}

func newSource() *Source {
	s := New(0.01)
	s.AddLayer(NewLayer("areas", 11, 0, []feature.Raw{park("Nord", 0), park("Sud", 5), {Properties: geojson.Properties{}}}))
	s.AddLayer(NewLayer("trees", 14, 0, []feature.Raw{
		treeAt(orb.Point{0.5, 0.5}, "Nord"),
		treeAt(orb.Point{0.2, 0.7}, "Nord"),
		treeAt(orb.Point{5.5, 0.5}, "Sud"),
	}))
	return s
}

func names(fs []feature.Raw) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		n, _ := feature.Text(f.Properties["name"])
		out = append(out, n)
	}
	return out
}

func TestRendered(t *testing.T) {
	s := newSource()

	if fs := s.Rendered(); fs != nil {
		t.Fatalf("rendered %d features before the first viewport", len(fs))
	}

	s.SetViewport(Viewport{Bound: orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{10, 2}}, Zoom: 12})
	got := names(s.Rendered("areas"))
	if len(got) != 2 || got[0] != "Nord" || got[1] != "Sud" {
		t.Errorf("areas = %v", got)
	}
	if n := len(s.Rendered("trees")); n != 0 {
		t.Errorf("trees rendered below their minzoom: %d", n)
	}

	s.SetViewport(Viewport{Bound: orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{2, 2}}, Zoom: 15})
	if n := len(s.Rendered()); n != 3 {
		t.Errorf("rendered = %d, want 1 area and 2 trees", n)
	}
	if v, ok := s.Viewport(); !ok || v.Zoom != 15 {
		t.Errorf("viewport = %+v", v)
	}
}

func TestCountTrees(t *testing.T) {
	s := newSource()
	s.SetViewport(Viewport{Bound: orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{10, 2}}, Zoom: 16})

	if n := s.CountTrees("Nord"); n != 2 {
		t.Errorf("Nord = %d", n)
	}
	if n := s.CountTrees("Sud"); n != 1 {
		t.Errorf("Sud = %d", n)
	}

	s.SetViewport(Viewport{Bound: orb.Bound{Min: orb.Point{4, -1}, Max: orb.Point{10, 2}}, Zoom: 16})
	if n := s.CountTrees("Nord"); n != 0 {
		t.Errorf("off-screen trees counted: %d", n)
	}
}

func TestAt(t *testing.T) {
	s := newSource()

	f, ok := s.At(orb.Point{0.5, 0.505}, 16)
	if !ok || feature.KindOf(f) != feature.KindTree {
		t.Fatalf("expected the tree, got %+v", f)
	}

	f, ok = s.At(orb.Point{0.8, 0.2}, 16)
	if !ok || f.Properties["name"] != "Nord" {
		t.Errorf("expected the park, got %+v", f)
	}

	// trees hidden below their minzoom
	f, ok = s.At(orb.Point{0.5, 0.5}, 12)
	if !ok || f.Properties["name"] != "Nord" {
		t.Errorf("expected the park at low zoom, got %+v", f)
	}

	if _, ok := s.At(orb.Point{3, 3}, 16); ok {
		t.Error("hit on empty map")
	}
	if _, ok := s.At(orb.Point{0.5, 0.5}, 5); ok {
		t.Error("hit below every minzoom")
	}
}

func TestLoadLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "areas.geojson")
	data := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[0,0]]]},"properties":{"name":"A"}}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLayer("areas", path, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 || !l.VisibleAt(0) {
		t.Errorf("layer = %+v", l)
	}

	if _, err := LoadLayer("missing", filepath.Join(t.TempDir(), "nope.geojson"), 0, 0); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLayerZoomRange(t *testing.T) {
	l := NewLayer("symbols", 3, 12, nil)
	for zoom, want := range map[float64]bool{2.9: false, 3: true, 11.9: true, 12: false} {
		if got := l.VisibleAt(zoom); got != want {
			t.Errorf("VisibleAt(%v) = %v, want %v", zoom, got, want)
		}
	}
}
