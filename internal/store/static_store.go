package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/zone-api/internal/models"
)

// StaticZoneStore evaluates the four commune-level predicates against the
// flat administrative tables. No geometry involved; the flags are orthogonal
// to the polygon-derived zone and always reported alongside it.
type StaticZoneStore struct {
	db *gorm.DB
}

func NewStaticZoneStore(db *gorm.DB) *StaticZoneStore {
	return &StaticZoneStore{db: db}
}

// StaticFlags carries the four independent booleans.
type StaticFlags struct {
	ZoneTendue            bool
	ZoneTresTendue        bool
	ZoneTendueTouristique bool
	PermisDeLouer         bool
}

// Flags evaluates the four lists for a commune. Match rule: exact commune
// code OR case-insensitive exact commune name, never substring ("Paris"
// must not match "Paris 15e"). Empty code and name short-circuit to all
// false.
func (s *StaticZoneStore) Flags(communeCode, communeName string) (StaticFlags, error) {
	var f StaticFlags
	if communeCode == "" && communeName == "" {
		return f, nil
	}
	var err error
	if f.ZoneTendue, err = s.member(&models.ZoneTendue{}, communeCode, communeName); err != nil {
		return f, err
	}
	if f.ZoneTresTendue, err = s.member(&models.ZoneTresTendue{}, communeCode, communeName); err != nil {
		return f, err
	}
	if f.ZoneTendueTouristique, err = s.member(&models.ZoneTendueTouristique{}, communeCode, communeName); err != nil {
		return f, err
	}
	if f.PermisDeLouer, err = s.member(&models.PermisDeLouer{}, communeCode, communeName); err != nil {
		return f, err
	}
	return f, nil
}

func (s *StaticZoneStore) member(model any, code, name string) (bool, error) {
	q := s.db.Model(model)
	switch {
	case code != "" && name != "":
		q = q.Where("commune_code = ? OR LOWER(commune_name) = LOWER(?)", code, name)
	case code != "":
		q = q.Where("commune_code = ?", code)
	default:
		q = q.Where("LOWER(commune_name) = LOWER(?)", name)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("liste statique %T: %w", model, err)
	}
	return count > 0, nil
}
