package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/diewo77/zone-api/internal/geo"
	"github.com/diewo77/zone-api/internal/geocode"
	"github.com/diewo77/zone-api/internal/metrics"
	"github.com/diewo77/zone-api/internal/models"
	"github.com/diewo77/zone-api/internal/store"
)

// ErrInvalidInput: the request itself is malformed (neither address nor
// coordinates, or coordinates out of range). The only resolver error a
// client ever sees as a 4xx.
var ErrInvalidInput = errors.New("resolution: adresse ou coordonnées requises")

// Geocoder is what the resolver needs from the BAN adapter.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Address, error)
	Search(ctx context.Context, query string) (*geocode.Address, error)
}

// ResolveQuery is one resolution request. Lat/Lng are pointers so "absent"
// and "zero" stay distinct; Year zero means the current year.
type ResolveQuery struct {
	Address string
	Lat     *float64
	Lng     *float64
	Year    int
}

// ZoneResolution is the assembled, request-scoped result. The four booleans
// come from the static commune lists; AreaID and Options come from polygon
// containment. The two sources are reported side by side, never merged.
type ZoneResolution struct {
	ZoneTendue            bool
	ZoneTresTendue        bool
	ZoneTendueTouristique bool
	PermisDeLouer         bool
	Options               store.FilterOptions
	AreaID                *uint
}

// Resolver drives one resolution end to end: geocoding, polygon containment,
// regional policy, price-grid options, static lists. Stateless; safe for
// concurrent use.
type Resolver struct {
	geocoder Geocoder
	areas    *store.AreaStore
	prices   *store.PriceStore
	static   *store.StaticZoneStore
	policies *PolicyRegistry
}

func NewResolver(geocoder Geocoder, areas *store.AreaStore, prices *store.PriceStore, static *store.StaticZoneStore, policies *PolicyRegistry) *Resolver {
	return &Resolver{geocoder: geocoder, areas: areas, prices: prices, static: static, policies: policies}
}

// Resolve computes the zone status for a location. "No rent-control data"
// is a valid outcome: every upstream failure except a data-integrity
// violation degrades to empty/false fields with a logged warning.
func (r *Resolver) Resolve(ctx context.Context, q ResolveQuery) (*ZoneResolution, error) {
	haveCoords := q.Lat != nil && q.Lng != nil
	address := strings.TrimSpace(q.Address)
	if !haveCoords && address == "" {
		return nil, ErrInvalidInput
	}
	var lat, lng float64
	if haveCoords {
		lat, lng = *q.Lat, *q.Lng
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, ErrInvalidInput
		}
	}
	year := q.Year
	if year == 0 {
		year = time.Now().Year()
	}

	res := &ZoneResolution{Options: store.FilterOptions{}}

	// Commune lookup. With coordinates we reverse-geocode; with only an
	// address we forward-geocode, which also supplies the point for the
	// geometric step. Failures here degrade: the request still succeeds
	// with whatever data remains reachable.
	var commune *geocode.Address
	if haveCoords {
		addr, err := r.geocoder.Reverse(ctx, lat, lng)
		if err != nil {
			log.Printf("zone: geocodage inverse (%.5f, %.5f): %v", lat, lng, err)
		} else {
			commune = addr
		}
	} else {
		addr, err := r.geocoder.Search(ctx, address)
		if err != nil {
			log.Printf("zone: geocodage de %q: %v", address, err)
		} else {
			commune = addr
			if addr.Lat != 0 || addr.Lng != 0 {
				lat, lng = addr.Lat, addr.Lng
				haveCoords = true
			}
		}
	}

	if haveCoords {
		candidates, err := r.areas.FindAreas(geo.Point{Lat: lat, Lng: lng}, year)
		if err != nil {
			log.Printf("zone: requete polygones annee %d: %v", year, err)
			candidates = nil
		}
		area, err := r.pickArea(candidates)
		if err != nil {
			// corrupted ingestion output; never silently resolved
			return nil, err
		}
		if area != nil {
			id := area.ID
			res.AreaID = &id
			opts, err := r.prices.Options(id)
			if err != nil {
				log.Printf("zone: options de la zone %d: %v", id, err)
			} else {
				res.Options = opts
			}
		}
	}

	if commune != nil {
		flags, err := r.static.Flags(commune.CommuneCode, commune.CommuneName)
		if err != nil {
			log.Printf("zone: listes statiques commune %s: %v", commune.CommuneCode, err)
		} else {
			res.ZoneTendue = flags.ZoneTendue
			res.ZoneTresTendue = flags.ZoneTresTendue
			res.ZoneTendueTouristique = flags.ZoneTendueTouristique
			res.PermisDeLouer = flags.PermisDeLouer
		}
	}

	if res.AreaID == nil && !res.ZoneTendue && !res.ZoneTresTendue &&
		!res.ZoneTendueTouristique && !res.PermisDeLouer {
		metrics.EmptyResolutionsTotal.Inc()
	}
	return res, nil
}

// pickArea groups the candidates per region (store order preserved within a
// group), resolves each region through its policy, and keeps the first
// authoritative area in the registry's priority order.
func (r *Resolver) pickArea(candidates []models.RentControlArea) (*models.RentControlArea, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	byRegion := make(map[models.Region][]models.RentControlArea)
	var order []models.Region
	for _, c := range candidates {
		if _, seen := byRegion[c.Region]; !seen {
			order = append(order, c.Region)
		}
		byRegion[c.Region] = append(byRegion[c.Region], c)
	}
	// priority list first, then any region the list does not know about, in
	// candidate order, so the outcome stays deterministic either way
	var regions []models.Region
	for _, reg := range r.policies.Priority() {
		if _, ok := byRegion[reg]; ok {
			regions = append(regions, reg)
		}
	}
	for _, reg := range order {
		if !containsRegion(regions, reg) {
			regions = append(regions, reg)
		}
	}
	for _, reg := range regions {
		area, err := r.policies.ResolveCandidates(reg, byRegion[reg])
		if err != nil {
			return nil, err
		}
		if area != nil {
			return area, nil
		}
	}
	return nil, nil
}

func containsRegion(list []models.Region, r models.Region) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}
