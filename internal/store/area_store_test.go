package store

import (
	"testing"

	"github.com/diewo77/zone-api/internal/geo"
	"github.com/diewo77/zone-api/internal/models"
)

func TestFindAreasScopedByYear(t *testing.T) {
	db := setupTestDB(t, t.Name())
	lyon := squareGeom(4.80, 45.70, 4.90, 45.80)
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionLyon, ZoneID: "3", ReferenceYear: 2024, Geometry: lyon})
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionLyon, ZoneID: "3bis", ReferenceYear: 2023, Geometry: lyon})

	s := NewAreaStore(db)
	inside := geo.Point{Lat: 45.75, Lng: 4.85}

	hits, err := s.FindAreas(inside, 2024)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(hits) != 1 || hits[0].ZoneID != "3" {
		t.Fatalf("expected the 2024 polygon, got %+v", hits)
	}

	hits, err = s.FindAreas(inside, 2023)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(hits) != 1 || hits[0].ZoneID != "3bis" {
		t.Fatalf("expected the 2023 polygon, got %+v", hits)
	}
}

func TestFindAreasOutsideEveryPolygonIsEmpty(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionLyon, ZoneID: "3", ReferenceYear: 2024, Geometry: squareGeom(4.80, 45.70, 4.90, 45.80)})

	s := NewAreaStore(db)
	hits, err := s.FindAreas(geo.Point{Lat: 48.85, Lng: 2.35}, 2024)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty set, got %+v", hits)
	}
}

func TestFindAreasDeterministicOrder(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mask := squareGeom(3.80, 43.55, 3.90, 43.65)
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionMontpellier, ZoneID: models.AcceptedZoneID, ReferenceYear: 2024, Geometry: mask})
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionMontpellier, ZoneID: "2", ReferenceYear: 2024, Geometry: squareGeom(3.84, 43.58, 3.88, 43.62)})

	s := NewAreaStore(db)
	for i := 0; i < 3; i++ {
		hits, err := s.FindAreas(geo.Point{Lat: 43.60, Lng: 3.86}, 2024)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("expected both polygons, got %d", len(hits))
		}
		if hits[0].ID >= hits[1].ID {
			t.Fatalf("expected ascending ID order, got %d then %d", hits[0].ID, hits[1].ID)
		}
	}
}

func TestFindAreasCorruptGeometryIsAnError(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mustCreate(t, db, &models.RentControlArea{Region: models.RegionLyon, ZoneID: "3", ReferenceYear: 2024, Geometry: "not geojson"})

	s := NewAreaStore(db)
	if _, err := s.FindAreas(geo.Point{Lat: 45.75, Lng: 4.85}, 2024); err == nil {
		t.Fatal("expected an error for corrupt geometry")
	}
}

func TestGetArea(t *testing.T) {
	db := setupTestDB(t, t.Name())
	a := models.RentControlArea{Region: models.RegionParis, ZoneID: "A bis", ReferenceYear: 2024, Geometry: squareGeom(2.2, 48.8, 2.5, 48.9)}
	mustCreate(t, db, &a)

	s := NewAreaStore(db)
	got, err := s.GetArea(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ZoneID != "A bis" {
		t.Fatalf("unexpected area %+v", got)
	}
	if _, err := s.GetArea(9999); err == nil {
		t.Fatal("expected error for unknown id")
	}
}
