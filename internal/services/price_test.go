package services

import (
	"errors"
	"testing"

	"github.com/diewo77/zone-api/internal/models"
	"github.com/diewo77/zone-api/internal/store"
)

func TestForPropertyExactlyOne(t *testing.T) {
	db := setupTestDB(t, t.Name())
	area := models.RentControlArea{Region: models.RegionPaysBasque, ZoneID: "2", ReferenceYear: 2024, Geometry: squareGeom(-1.6, 43.4, -1.4, 43.5)}
	mustCreate(t, db, &area)
	mustCreate(t, db, &models.RentPrice{
		PropertyType: models.PropertyTypeAppartement, RoomCount: "2",
		ConstructionPeriod: models.Construction1946To1970, Furnished: true,
		ReferencePrice: 13.5, MinPrice: 9.45, MaxPrice: 16.2,
		Areas: []models.RentControlArea{area},
	})
	mustCreate(t, db, &models.RentPrice{
		PropertyType: models.PropertyTypeMaison, RoomCount: "2",
		ConstructionPeriod: models.Construction1946To1970, Furnished: true,
		ReferencePrice: 12, MinPrice: 8.4, MaxPrice: 14.4,
		Areas: []models.RentControlArea{area},
	})

	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	p, err := s.ForProperty(PropertyQuery{
		AreaID: area.ID, PropertyType: models.PropertyTypeMaison,
		RoomCount: 2, ConstructionPeriod: models.Construction1946To1970, Furnished: true,
	})
	if err != nil {
		t.Fatalf("for property: %v", err)
	}
	if p.PropertyType != models.PropertyTypeMaison || p.ReferencePrice != 12 {
		t.Fatalf("wrong row: %+v", p)
	}
}

func TestForPropertyRoomCountCapsAtFour(t *testing.T) {
	db := setupTestDB(t, t.Name())
	area := models.RentControlArea{Region: models.RegionLyon, ZoneID: "1", ReferenceYear: 2024, Geometry: squareGeom(4.8, 45.7, 4.9, 45.8)}
	mustCreate(t, db, &area)
	mustCreate(t, db, &models.RentPrice{
		RoomCount: models.RoomCountFourPlus, ConstructionPeriod: models.ConstructionBefore1946,
		Furnished: false, ReferencePrice: 11.2, MinPrice: 7.84, MaxPrice: 13.44,
		Areas: []models.RentControlArea{area},
	})

	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	// a 6-room flat matches the "4 pièces et plus" row
	p, err := s.ForProperty(PropertyQuery{
		AreaID: area.ID, RoomCount: 6,
		ConstructionPeriod: models.ConstructionBefore1946, Furnished: false,
	})
	if err != nil {
		t.Fatalf("for property: %v", err)
	}
	if p.RoomCount != models.RoomCountFourPlus {
		t.Fatalf("room count: %s", p.RoomCount)
	}
}

func TestForPropertyIgnoresTypeOnApartmentOnlyGrids(t *testing.T) {
	db := setupTestDB(t, t.Name())
	area := models.RentControlArea{Region: models.RegionParis, ZoneID: "5", ReferenceYear: 2024, Geometry: squareGeom(2.2, 48.8, 2.5, 48.9)}
	mustCreate(t, db, &area)
	// Paris rows carry no property type at all
	mustCreate(t, db, &models.RentPrice{
		RoomCount: "1", ConstructionPeriod: models.ConstructionAfter1990,
		Furnished: true, ReferencePrice: 28, MinPrice: 19.6, MaxPrice: 33.6,
		Areas: []models.RentControlArea{area},
	})

	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	p, err := s.ForProperty(PropertyQuery{
		AreaID: area.ID, PropertyType: models.PropertyTypeMaison,
		RoomCount: 1, ConstructionPeriod: models.ConstructionAfter1990, Furnished: true,
	})
	if err != nil {
		t.Fatalf("for property: %v", err)
	}
	if p.ReferencePrice != 28 {
		t.Fatalf("wrong row: %+v", p)
	}
}

func TestForPropertyNoMatch(t *testing.T) {
	db := setupTestDB(t, t.Name())
	area := models.RentControlArea{Region: models.RegionLille, ZoneID: "1", ReferenceYear: 2024, Geometry: squareGeom(3.0, 50.6, 3.1, 50.7)}
	mustCreate(t, db, &area)

	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	_, err := s.ForProperty(PropertyQuery{
		AreaID: area.ID, RoomCount: 2,
		ConstructionPeriod: models.ConstructionBefore1946, Furnished: false,
	})
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("expected ErrNoPrice, got %v", err)
	}
}

func TestForPropertyAmbiguousGrid(t *testing.T) {
	db := setupTestDB(t, t.Name())
	area := models.RentControlArea{Region: models.RegionLille, ZoneID: "1", ReferenceYear: 2024, Geometry: squareGeom(3.0, 50.6, 3.1, 50.7)}
	mustCreate(t, db, &area)
	for i := 0; i < 2; i++ {
		mustCreate(t, db, &models.RentPrice{
			RoomCount: "2", ConstructionPeriod: models.ConstructionBefore1946,
			Furnished: false, ReferencePrice: 15 + float64(i), MinPrice: 10, MaxPrice: 18,
			Areas: []models.RentControlArea{area},
		})
	}

	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	_, err := s.ForProperty(PropertyQuery{
		AreaID: area.ID, RoomCount: 2,
		ConstructionPeriod: models.ConstructionBefore1946, Furnished: false,
	})
	if !errors.Is(err, ErrAmbiguousPrice) {
		t.Fatalf("expected ErrAmbiguousPrice, got %v", err)
	}
}

func TestForPropertyUnknownArea(t *testing.T) {
	db := setupTestDB(t, t.Name())
	s := NewPriceService(store.NewAreaStore(db), store.NewPriceStore(db))
	_, err := s.ForProperty(PropertyQuery{AreaID: 9999, RoomCount: 1, ConstructionPeriod: models.ConstructionBefore1946})
	if !errors.Is(err, ErrAreaNotFound) {
		t.Fatalf("expected ErrAreaNotFound, got %v", err)
	}
}

func TestTotalsScaleBySurface(t *testing.T) {
	p := &models.RentPrice{ReferencePrice: 20, MinPrice: 14, MaxPrice: 24}
	tot := Totals(p, 45)
	if tot.TotalReferencePrice != 900 || tot.TotalMinPrice != 630 || tot.TotalMaxPrice != 1080 {
		t.Fatalf("totals: %+v", tot)
	}
	if tot.Surface != 45 || tot.ReferencePricePerM2 != 20 {
		t.Fatalf("totals: %+v", tot)
	}
}
