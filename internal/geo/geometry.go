// Package geo implements the planar geometry used by the polygon store:
// GeoJSON decoding and point-in-polygon containment in WGS84 coordinates.
// Containment is evaluated on geographic coordinates without projection;
// at agglomeration scale the error is negligible for zone assignment.
package geo

import (
	"encoding/json"
	"fmt"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Polygon is one outer ring plus optional hole rings, with a precomputed
// bounding box used as a cheap pre-filter ([minLng, minLat, maxLng, maxLat]).
type Polygon struct {
	Rings [][]Point
	BBox  [4]float64
}

// Geometry is a decoded GeoJSON Polygon or MultiPolygon.
type Geometry struct {
	Polys []Polygon
}

type geojson struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Decode parses a GeoJSON geometry document. Only Polygon and MultiPolygon
// are accepted; that is all the ingestion jobs ever store.
func Decode(doc string) (*Geometry, error) {
	var g geojson
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, fmt.Errorf("geometrie invalide: %w", err)
	}
	switch g.Type {
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("coordonnees Polygon: %w", err)
		}
		p, err := buildPolygon(rings)
		if err != nil {
			return nil, err
		}
		return &Geometry{Polys: []Polygon{p}}, nil
	case "MultiPolygon":
		var parts [][][][2]float64
		if err := json.Unmarshal(g.Coordinates, &parts); err != nil {
			return nil, fmt.Errorf("coordonnees MultiPolygon: %w", err)
		}
		geom := &Geometry{}
		for _, rings := range parts {
			p, err := buildPolygon(rings)
			if err != nil {
				return nil, err
			}
			geom.Polys = append(geom.Polys, p)
		}
		if len(geom.Polys) == 0 {
			return nil, fmt.Errorf("MultiPolygon vide")
		}
		return geom, nil
	default:
		return nil, fmt.Errorf("type de geometrie non supporte: %q", g.Type)
	}
}

func buildPolygon(rings [][][2]float64) (Polygon, error) {
	var p Polygon
	for _, ring := range rings {
		if len(ring) < 4 {
			return p, fmt.Errorf("anneau trop court (%d points)", len(ring))
		}
		r := make([]Point, 0, len(ring))
		for _, c := range ring {
			// GeoJSON order is [lng, lat]
			r = append(r, Point{Lat: c[1], Lng: c[0]})
		}
		p.Rings = append(p.Rings, r)
	}
	if len(p.Rings) == 0 {
		return p, fmt.Errorf("Polygon sans anneau")
	}
	p.BBox = computeBBox(p)
	return p, nil
}

func computeBBox(p Polygon) [4]float64 {
	b := [4]float64{180, 90, -180, -90}
	for _, pt := range p.Rings[0] {
		if pt.Lng < b[0] {
			b[0] = pt.Lng
		}
		if pt.Lat < b[1] {
			b[1] = pt.Lat
		}
		if pt.Lng > b[2] {
			b[2] = pt.Lng
		}
		if pt.Lat > b[3] {
			b[3] = pt.Lat
		}
	}
	return b
}

func inBBox(pt Point, b [4]float64) bool {
	return pt.Lng >= b[0] && pt.Lat >= b[1] && pt.Lng <= b[2] && pt.Lat <= b[3]
}

// Contains reports whether the point falls inside the geometry. Holes are
// subtracted. The even-odd rule used here is half-open: a point exactly on a
// lower/left edge counts as inside, on an upper/right edge as outside, so
// adjacent polygons sharing an edge never both claim the same point.
func (g *Geometry) Contains(pt Point) bool {
	for _, p := range g.Polys {
		if !inBBox(pt, p.BBox) {
			continue
		}
		if !rayCast(pt, p.Rings[0]) {
			continue
		}
		inHole := false
		for _, hole := range p.Rings[1:] {
			if rayCast(pt, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

func rayCast(pt Point, ring []Point) bool {
	in := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[j]
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) {
			x := (b.Lng-a.Lng)*(pt.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if pt.Lng < x {
				in = !in
			}
		}
		j = i
	}
	return in
}
