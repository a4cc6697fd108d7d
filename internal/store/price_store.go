package store

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/diewo77/zone-api/internal/models"
)

// PriceStore reads the price grids attached to areas.
type PriceStore struct {
	db *gorm.DB
}

func NewPriceStore(db *gorm.DB) *PriceStore {
	return &PriceStore{db: db}
}

// FilterOptions are the distinct criteria values admissible for one area's
// grid, used by the form frontend to restrict its selectors.
type FilterOptions struct {
	PropertyTypes       []string `json:"propertyTypes"`
	RoomCounts          []string `json:"roomCounts"`
	ConstructionPeriods []string `json:"constructionPeriods"`
	FurnishedOptions    []bool   `json:"furnishedOptions"`
}

// IsEmpty reports whether no grid row at all references the area.
func (o FilterOptions) IsEmpty() bool {
	return len(o.PropertyTypes) == 0 && len(o.RoomCounts) == 0 &&
		len(o.ConstructionPeriods) == 0 && len(o.FurnishedOptions) == 0
}

// Options collects the distinct filter values of the grid rows attached to
// the area. Values are sorted so the payload is stable across calls.
func (s *PriceStore) Options(areaID uint) (FilterOptions, error) {
	var opts FilterOptions
	var rows []models.RentPrice
	err := s.db.
		Joins("JOIN area_prices ON area_prices.rent_price_id = rent_prices.id").
		Where("area_prices.rent_control_area_id = ?", areaID).
		Find(&rows).Error
	if err != nil {
		return opts, fmt.Errorf("grille de prix zone %d: %w", areaID, err)
	}
	propertyTypes := map[string]bool{}
	roomCounts := map[string]bool{}
	periods := map[string]bool{}
	furnished := map[bool]bool{}
	for _, r := range rows {
		if r.PropertyType != "" {
			propertyTypes[r.PropertyType] = true
		}
		roomCounts[r.RoomCount] = true
		periods[r.ConstructionPeriod] = true
		furnished[r.Furnished] = true
	}
	opts.PropertyTypes = sortedKeys(propertyTypes)
	opts.RoomCounts = sortedKeys(roomCounts)
	opts.ConstructionPeriods = sortedKeys(periods)
	if furnished[false] {
		opts.FurnishedOptions = append(opts.FurnishedOptions, false)
	}
	if furnished[true] {
		opts.FurnishedOptions = append(opts.FurnishedOptions, true)
	}
	return opts, nil
}

// PriceCriteria narrows a grid down to one row. PropertyType is ignored for
// the apartment-only grids (see services.PriceService).
type PriceCriteria struct {
	AreaID             uint
	PropertyType       string
	RoomCount          string
	ConstructionPeriod string
	Furnished          bool
}

// FindPrices returns the grid rows matching the criteria for one area.
func (s *PriceStore) FindPrices(c PriceCriteria) ([]models.RentPrice, error) {
	q := s.db.
		Joins("JOIN area_prices ON area_prices.rent_price_id = rent_prices.id").
		Where("area_prices.rent_control_area_id = ?", c.AreaID).
		Where("rent_prices.room_count = ?", c.RoomCount).
		Where("rent_prices.construction_period = ?", c.ConstructionPeriod).
		Where("rent_prices.furnished = ?", c.Furnished)
	if c.PropertyType != "" {
		q = q.Where("rent_prices.property_type = ?", c.PropertyType)
	}
	var rows []models.RentPrice
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("recherche de prix zone %d: %w", c.AreaID, err)
	}
	return rows, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
