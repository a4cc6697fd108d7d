package models

import "time"

// RentControlArea is one regulatory polygon loaded by the per-city ingestion
// jobs. Rows are immutable for a given reference year; a new campaign inserts
// a fresh set of rows under the next year instead of mutating these.
type RentControlArea struct {
	ID            uint   `gorm:"primaryKey"`
	Region        Region `gorm:"size:20;not null;index"`
	ZoneID        string `gorm:"size:50;not null"` // vocabulaire propre à chaque agglomération ("A bis", "Zone 1", "ACCEPTED", ...)
	ReferenceYear int    `gorm:"not null;index"`
	// Geometry holds the polygon as GeoJSON (Polygon or MultiPolygon, WGS84).
	Geometry  string      `gorm:"type:text;not null"`
	Prices    []RentPrice `gorm:"many2many:area_prices"`
	CreatedAt time.Time
}

// RentPrice is one row of a price grid. A grid row can apply identically to
// several zone codes, hence the many-to-many with areas.
type RentPrice struct {
	ID                 uint   `gorm:"primaryKey"`
	PropertyType       string `gorm:"size:50"` // vide pour les grilles appartement-only (Paris, Lille, Lyon, ...)
	RoomCount          string `gorm:"size:20;not null"`
	ConstructionPeriod string `gorm:"size:50;not null"`
	Furnished          bool   `gorm:"not null"`
	// Prix au m² en euros.
	ReferencePrice float64           `gorm:"not null"`
	MinPrice       float64           `gorm:"not null"`
	MaxPrice       float64           `gorm:"not null"`
	Areas          []RentControlArea `gorm:"many2many:area_prices"`
	CreatedAt      time.Time
}

// Commune-level static lists. Each table is a flat set maintained by
// administrative data loads; membership is exact on code or case-insensitive
// exact on name, never partial.

// ZoneTendue: communes where the national "zone tendue" rent rules apply.
type ZoneTendue struct {
	ID          uint   `gorm:"primaryKey"`
	CommuneCode string `gorm:"size:10;index"`
	CommuneName string `gorm:"size:100;index"`
}

// ZoneTresTendue: the stricter "très tendue" subset.
type ZoneTresTendue struct {
	ID          uint   `gorm:"primaryKey"`
	CommuneCode string `gorm:"size:10;index"`
	CommuneName string `gorm:"size:100;index"`
}

// ZoneTendueTouristique: communes flagged for the touristic-pressure regime.
type ZoneTendueTouristique struct {
	ID          uint   `gorm:"primaryKey"`
	CommuneCode string `gorm:"size:10;index"`
	CommuneName string `gorm:"size:100;index"`
}

// PermisDeLouer: communes requiring a prior rental authorisation.
type PermisDeLouer struct {
	ID          uint   `gorm:"primaryKey"`
	CommuneCode string `gorm:"size:10;index"`
	CommuneName string `gorm:"size:100;index"`
}
