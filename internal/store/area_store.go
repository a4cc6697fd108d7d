// Package store gives read-only access to the rent-control reference data:
// regulatory polygons, price grids, and the commune-level static lists. All
// of it is bulk-loaded by external ingestion jobs and never mutated here, so
// every query is safe under concurrent requests.
package store

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/diewo77/zone-api/internal/geo"
	"github.com/diewo77/zone-api/internal/models"
)

// AreaStore answers point-containment queries against the polygon table.
// Decoded geometries are memoized per area ID; area rows are immutable for a
// given reference year, which makes the cache trivially correct.
type AreaStore struct {
	db *gorm.DB

	mu    sync.RWMutex
	geoms map[uint]*geo.Geometry
}

func NewAreaStore(db *gorm.DB) *AreaStore {
	return &AreaStore{db: db, geoms: make(map[uint]*geo.Geometry)}
}

// FindAreas returns every stored polygon, across all regions, containing the
// point for the given reference year, in ascending ID order. An empty result
// is a normal outcome, not an error.
func (s *AreaStore) FindAreas(pt geo.Point, year int) ([]models.RentControlArea, error) {
	var areas []models.RentControlArea
	if err := s.db.Where("reference_year = ?", year).Order("id").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("chargement des zones %d: %w", year, err)
	}
	var hits []models.RentControlArea
	for _, a := range areas {
		g, err := s.geometry(a)
		if err != nil {
			return nil, fmt.Errorf("zone %d (%s %s): %w", a.ID, a.Region, a.ZoneID, err)
		}
		if g.Contains(pt) {
			hits = append(hits, a)
		}
	}
	return hits, nil
}

// GetArea fetches one polygon row by ID.
func (s *AreaStore) GetArea(id uint) (*models.RentControlArea, error) {
	var a models.RentControlArea
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AreaStore) geometry(a models.RentControlArea) (*geo.Geometry, error) {
	s.mu.RLock()
	g, ok := s.geoms[a.ID]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}
	g, err := geo.Decode(a.Geometry)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.geoms[a.ID] = g
	s.mu.Unlock()
	return g, nil
}
