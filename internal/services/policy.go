package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/zone-api/internal/models"
)

// ErrDataIntegrity signals that the polygon table violates the per-region
// layout contract (a single-layer region returned several polygons for one
// point). This is corrupted ingestion output; it is surfaced, never guessed
// around.
var ErrDataIntegrity = errors.New("zones: recouvrement de polygones inattendu")

// candidatePolicy reduces the polygons containing a point, all of one
// region, to at most one authoritative area.
type candidatePolicy func(candidates []models.RentControlArea) (*models.RentControlArea, error)

// PolicyRegistry holds the per-region disambiguation rules and the explicit
// region ordering used when a point falls inside several regions at once.
// Built once at startup and passed to the resolver, so tests can substitute
// their own tables.
type PolicyRegistry struct {
	policies map[models.Region]candidatePolicy
	priority []models.Region
}

// DefaultPolicies returns the production rule set.
//
// Grenoble and Montpellier publish two layers: a coarse commune mask tagged
// ACCEPTED plus fine-grained sub-zones, of which only a fixed whitelist of
// codes carries usable pricing. Every other agglomeration publishes a single
// non-overlapping layer.
func DefaultPolicies() *PolicyRegistry {
	r := &PolicyRegistry{
		policies: map[models.Region]candidatePolicy{
			models.RegionGrenoble:    maskWhitelist("Zone 1", "Zone 2", "Zone A"),
			models.RegionMontpellier: maskWhitelist("1", "2", "3", "4", "5"),
		},
		// Paris and its inner-ring agglomerations first, then the standalone
		// cities. A point inside several regions is not expected from the
		// ingestion layout; this order makes the outcome deterministic if it
		// happens anyway.
		priority: []models.Region{
			models.RegionParis,
			models.RegionEstEnsemble,
			models.RegionPlaineCommune,
			models.RegionLyon,
			models.RegionLille,
			models.RegionMontpellier,
			models.RegionBordeaux,
			models.RegionPaysBasque,
			models.RegionGrenoble,
		},
	}
	return r
}

// ResolveCandidates applies the region's rule to the candidate polygons
// (store iteration order preserved). Nil result means no authoritative zone.
func (r *PolicyRegistry) ResolveCandidates(region models.Region, candidates []models.RentControlArea) (*models.RentControlArea, error) {
	if p, ok := r.policies[region]; ok {
		return p(candidates)
	}
	return singleLayer(candidates)
}

// Priority returns the region evaluation order.
func (r *PolicyRegistry) Priority() []models.Region {
	return r.priority
}

// maskWhitelist implements the two-tier rule: no ACCEPTED mask among the
// candidates means the point carries no usable classification at all, even
// when sub-zones match; otherwise the first candidate whose zone code is in
// the whitelist wins.
func maskWhitelist(whitelist ...string) candidatePolicy {
	allowed := make(map[string]bool, len(whitelist))
	for _, z := range whitelist {
		allowed[z] = true
	}
	return func(candidates []models.RentControlArea) (*models.RentControlArea, error) {
		maskSeen := false
		for _, c := range candidates {
			if c.ZoneID == models.AcceptedZoneID {
				maskSeen = true
				break
			}
		}
		if !maskSeen {
			return nil, nil
		}
		for i := range candidates {
			if allowed[candidates[i].ZoneID] {
				return &candidates[i], nil
			}
		}
		return nil, nil
	}
}

// singleLayer expects at most one containing polygon.
func singleLayer(candidates []models.RentControlArea) (*models.RentControlArea, error) {
	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return &candidates[0], nil
	default:
		return nil, fmt.Errorf("%w: region %s, %d polygones", ErrDataIntegrity, candidates[0].Region, len(candidates))
	}
}
