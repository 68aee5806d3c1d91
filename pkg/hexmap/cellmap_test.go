package hexmap

import (
	"encoding/json"
	"testing"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
)

func TestContentIsEmpty(t *testing.T) {
	if !(Content{}).IsEmpty() {
		t.Fatalf("zero content should be empty")
	}
	if !(Content{Name: "named but unpainted"}).IsEmpty() {
		t.Fatalf("content with only a name is still empty")
	}
	if (Content{Terrain: TerrainForest}).IsEmpty() {
		t.Fatalf("terrain content should not be empty")
	}
	if (Content{Landmark: LandmarkRuins}).IsEmpty() {
		t.Fatalf("landmark content should not be empty")
	}
}

func TestContentClear(t *testing.T) {
	base := Content{Terrain: TerrainForest, Landmark: LandmarkRuins, Name: "Old Watch"}

	c := base
	c.Clear(CategoryTerrain)
	if c.Terrain != "" || c.Landmark != LandmarkRuins {
		t.Fatalf("clearing terrain should leave the landmark layer, got %+v", c)
	}

	// landmark, marker and road icons share the landmark layer
	for _, cat := range []Category{CategoryLandmark, CategoryMarker, CategoryRoad} {
		c = base
		c.Clear(cat)
		if c.Landmark != "" || c.Terrain != TerrainForest {
			t.Fatalf("clearing %v should leave the terrain layer, got %+v", cat, c)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, want := range []Category{CategoryTerrain, CategoryLandmark, CategoryMarker, CategoryRoad} {
		got, ok := ParseCategory(want.String())
		if !ok || got != want {
			t.Fatalf("ParseCategory(%q) = %v, %v", want.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("fog"); ok {
		t.Fatalf("unknown category name should not parse")
	}
}

func TestContentAtMissingCell(t *testing.T) {
	m := CellMap{}
	if got := m.ContentAt(hexgrid.Axial{Q: 5, R: 5}); !got.IsEmpty() {
		t.Fatalf("missing cell should read as empty content, got %+v", got)
	}
}

func TestCellMapJSONRoundTrip(t *testing.T) {
	m := CellMap{
		{Q: 0, R: 0}:  {Content: Content{Terrain: TerrainPlains}},
		{Q: -2, R: 3}: {Content: Content{Landmark: LandmarkCastle, Name: "Hightower"}, Explored: true},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out CellMap
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != len(m) {
		t.Fatalf("expected %d cells, got %d", len(m), len(out))
	}
	cell := out[hexgrid.Axial{Q: -2, R: 3}]
	if cell.Landmark != LandmarkCastle || cell.Name != "Hightower" || !cell.Explored {
		t.Fatalf("cell mismatch after round trip: %+v", cell)
	}
}

func TestCoordSetJSONRoundTrip(t *testing.T) {
	s := NewCoordSet(hexgrid.Axial{Q: 1, R: -1}, hexgrid.Axial{Q: 0, R: 0})
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out CoordSet
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 || !out.Contains(hexgrid.Axial{Q: 1, R: -1}) {
		t.Fatalf("set mismatch after round trip: %v", out)
	}
}

func TestDimensionsContains(t *testing.T) {
	d := Dimensions{Width: 10, Height: 10}
	cases := []struct {
		row, col int
		want     bool
	}{
		{0, 0, true},
		{9, 9, true},
		{10, 0, false},
		{0, 10, false},
		{-1, 0, false},
		{5, -1, false},
	}
	for _, tc := range cases {
		a := hexgrid.FromRowCol(tc.row, tc.col)
		if got := d.Contains(a); got != tc.want {
			t.Errorf("Contains(row=%d,col=%d) = %v, want %v", tc.row, tc.col, got, tc.want)
		}
	}
}
