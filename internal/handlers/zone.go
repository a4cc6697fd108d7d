package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/zone-api/internal/httpx"
	"github.com/diewo77/zone-api/internal/metrics"
	"github.com/diewo77/zone-api/internal/services"
)

// ZoneHandler serves the zone-resolution endpoint.
type ZoneHandler struct {
	Resolver *services.Resolver
}

func NewZoneHandler(resolver *services.Resolver) *ZoneHandler {
	return &ZoneHandler{Resolver: resolver}
}

type zoneResponse struct {
	ZoneTendue            bool  `json:"zoneTendue"`
	ZoneTresTendue        bool  `json:"zoneTresTendue"`
	ZoneTendueTouristique bool  `json:"zoneTendueTouristique"`
	PermisDeLouer         bool  `json:"permisDeLouer"`
	Options               any   `json:"options"`
	AreaID                *uint `json:"areaId"`
}

// CheckZone: GET /check-zone?lat=&lng=&address=[&year=]
// Absence of rent-control data is a 200 with false/empty fields; only
// malformed input (400) and polygon-layout corruption (500) are errors.
func (h *ZoneHandler) CheckZone(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("check-zone").Inc()
	t0 := time.Now()
	defer func() {
		metrics.RequestDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()

	q := services.ResolveQuery{Address: r.URL.Query().Get("address")}
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if (latStr == "") != (lngStr == "") {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"lat": "lat et lng vont ensemble"})
		return
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"lat": "nombre attendu"})
			return
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"lng": "nombre attendu"})
			return
		}
		q.Lat, q.Lng = &lat, &lng
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"year": "entier attendu"})
			return
		}
		q.Year = year
	}

	res, err := h.Resolver.Resolve(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"query": "adresse ou lat/lng requis, coordonnées dans les bornes"})
		case errors.Is(err, services.ErrDataIntegrity):
			httpx.JSONError(w, http.StatusInternalServerError, "data_integrity", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "resolution_failed", nil)
		}
		return
	}

	resp := zoneResponse{
		ZoneTendue:            res.ZoneTendue,
		ZoneTresTendue:        res.ZoneTresTendue,
		ZoneTendueTouristique: res.ZoneTendueTouristique,
		PermisDeLouer:         res.PermisDeLouer,
		AreaID:                res.AreaID,
	}
	if res.AreaID != nil {
		resp.Options = res.Options
	} else {
		resp.Options = struct{}{}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
