package services

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/diewo77/zone-api/internal/models"
	"github.com/diewo77/zone-api/internal/store"
)

var (
	ErrAreaNotFound   = errors.New("prix: zone non trouvée")
	ErrNoPrice        = errors.New("prix: aucun prix pour ces critères")
	ErrAmbiguousPrice = errors.New("prix: plusieurs prix pour ces critères")
)

// apartmentOnlyGrids: agglomerations whose price grids do not distinguish
// property types, so the criterion must be skipped there or nothing matches.
var apartmentOnlyGrids = map[models.Region]bool{
	models.RegionParis:       true,
	models.RegionLille:       true,
	models.RegionLyon:        true,
	models.RegionMontpellier: true,
	models.RegionGrenoble:    true,
}

// PriceService answers "what is the reference rent for this property in this
// zone", with the exactly-one-row contract the lease generator relies on.
type PriceService struct {
	areas  *store.AreaStore
	prices *store.PriceStore
}

func NewPriceService(areas *store.AreaStore, prices *store.PriceStore) *PriceService {
	return &PriceService{areas: areas, prices: prices}
}

// PropertyQuery describes the property whose reference price is wanted.
type PropertyQuery struct {
	AreaID             uint
	PropertyType       string
	RoomCount          int
	ConstructionPeriod string
	Furnished          bool
}

// ForProperty finds the single grid row matching the property. Zero matches
// and multiple matches are both errors: the grids are supposed to partition
// the criteria space exactly.
func (s *PriceService) ForProperty(q PropertyQuery) (*models.RentPrice, error) {
	area, err := s.areas.GetArea(q.AreaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrAreaNotFound, q.AreaID)
		}
		return nil, err
	}
	crit := store.PriceCriteria{
		AreaID:             q.AreaID,
		RoomCount:          roomCountFilter(q.RoomCount),
		ConstructionPeriod: q.ConstructionPeriod,
		Furnished:          q.Furnished,
	}
	if !apartmentOnlyGrids[area.Region] {
		crit.PropertyType = q.PropertyType
	}
	rows, err := s.prices.FindPrices(crit)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%w: zone %d, %s pièces, %s, meublé=%t",
			ErrNoPrice, q.AreaID, crit.RoomCount, crit.ConstructionPeriod, q.Furnished)
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: zone %d (%d résultats)", ErrAmbiguousPrice, q.AreaID, len(rows))
	}
}

// roomCountFilter maps a room count onto the grid vocabulary; grids cap at
// "4" for 4 pièces et plus.
func roomCountFilter(rooms int) string {
	if rooms >= 1 && rooms <= 3 {
		return strconv.Itoa(rooms)
	}
	return models.RoomCountFourPlus
}

// PriceTotals are the per-m² reference prices scaled by the surface.
type PriceTotals struct {
	ReferencePricePerM2 float64 `json:"referencePricePerM2"`
	MinPricePerM2       float64 `json:"minPricePerM2"`
	MaxPricePerM2       float64 `json:"maxPricePerM2"`
	Surface             float64 `json:"surface"`
	TotalReferencePrice float64 `json:"totalReferencePrice"`
	TotalMinPrice       float64 `json:"totalMinPrice"`
	TotalMaxPrice       float64 `json:"totalMaxPrice"`
}

// Totals scales a grid row by the property surface.
func Totals(p *models.RentPrice, surface float64) PriceTotals {
	return PriceTotals{
		ReferencePricePerM2: p.ReferencePrice,
		MinPricePerM2:       p.MinPrice,
		MaxPricePerM2:       p.MaxPrice,
		Surface:             surface,
		TotalReferencePrice: p.ReferencePrice * surface,
		TotalMinPrice:       p.MinPrice * surface,
		TotalMaxPrice:       p.MaxPrice * surface,
	}
}
