package geo

import "testing"

// unit square polygon with a hole in the middle
const squareWithHole = `{
	"type": "Polygon",
	"coordinates": [
		[[0,0],[4,0],[4,4],[0,4],[0,0]],
		[[1,1],[3,1],[3,3],[1,3],[1,1]]
	]
}`

const twoSquares = `{
	"type": "MultiPolygon",
	"coordinates": [
		[[[0,0],[1,0],[1,1],[0,1],[0,0]]],
		[[[10,10],[11,10],[11,11],[10,11],[10,10]]]
	]
}`

func TestDecodePolygon(t *testing.T) {
	g, err := Decode(squareWithHole)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Polys) != 1 {
		t.Fatalf("expected 1 polygon got %d", len(g.Polys))
	}
	if len(g.Polys[0].Rings) != 2 {
		t.Fatalf("expected outer ring + hole got %d rings", len(g.Polys[0].Rings))
	}
	bbox := g.Polys[0].BBox
	if bbox != [4]float64{0, 0, 4, 4} {
		t.Fatalf("unexpected bbox %v", bbox)
	}
}

func TestDecodeRejectsUnsupported(t *testing.T) {
	cases := []string{
		`{"type":"Point","coordinates":[1,2]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`, // ring too short
		`not json`,
		`{"type":"MultiPolygon","coordinates":[]}`,
	}
	for _, doc := range cases {
		if _, err := Decode(doc); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestContains(t *testing.T) {
	g, err := Decode(squareWithHole)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cases := []struct {
		name string
		pt   Point
		want bool
	}{
		{"inside outer ring", Point{Lat: 0.5, Lng: 0.5}, true},
		{"inside hole", Point{Lat: 2, Lng: 2}, false},
		{"outside", Point{Lat: 5, Lng: 5}, false},
		{"outside bbox", Point{Lat: -1, Lng: -1}, false},
	}
	for _, c := range cases {
		if got := g.Contains(c.pt); got != c.want {
			t.Errorf("%s: Contains=%t want %t", c.name, got, c.want)
		}
	}
}

func TestContainsMultiPolygon(t *testing.T) {
	g, err := Decode(twoSquares)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !g.Contains(Point{Lat: 0.5, Lng: 0.5}) {
		t.Error("expected hit in first part")
	}
	if !g.Contains(Point{Lat: 10.5, Lng: 10.5}) {
		t.Error("expected hit in second part")
	}
	if g.Contains(Point{Lat: 5, Lng: 5}) {
		t.Error("expected miss between parts")
	}
}

// Pins the half-open edge rule: a point on the lower edge is inside, on the
// upper edge outside, so two polygons sharing an edge never both claim it.
func TestContainsBoundaryRule(t *testing.T) {
	lower, err := Decode(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}`)
	if err != nil {
		t.Fatalf("decode lower: %v", err)
	}
	upper, err := Decode(`{"type":"Polygon","coordinates":[[[0,2],[2,2],[2,4],[0,4],[0,2]]]}`)
	if err != nil {
		t.Fatalf("decode upper: %v", err)
	}
	onSharedEdge := Point{Lat: 2, Lng: 1}
	inLower := lower.Contains(onSharedEdge)
	inUpper := upper.Contains(onSharedEdge)
	if inLower == inUpper {
		t.Fatalf("shared edge claimed by both or neither: lower=%t upper=%t", inLower, inUpper)
	}
	if !inUpper {
		t.Fatalf("expected the edge point to belong to the polygon it is the lower edge of")
	}
}
