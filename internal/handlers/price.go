package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/zone-api/internal/httpx"
	"github.com/diewo77/zone-api/internal/metrics"
	"github.com/diewo77/zone-api/internal/services"
)

// PriceHandler serves the reference-price lookup used when generating a
// lease for a property inside a controlled zone.
type PriceHandler struct {
	Svc *services.PriceService
}

func NewPriceHandler(svc *services.PriceService) *PriceHandler {
	return &PriceHandler{Svc: svc}
}

type priceResponse struct {
	AreaID             uint                 `json:"areaId"`
	PropertyType       string               `json:"propertyType,omitempty"`
	RoomCount          string               `json:"roomCount"`
	ConstructionPeriod string               `json:"constructionPeriod"`
	Furnished          bool                 `json:"furnished"`
	ReferencePrice     float64              `json:"referencePrice"`
	MinPrice           float64              `json:"minPrice"`
	MaxPrice           float64              `json:"maxPrice"`
	Totals             *services.PriceTotals `json:"totals,omitempty"`
}

// RentPrice: GET /rent-price?area_id=&rooms=&construction_period=&furnished=[&property_type=&surface=]
func (h *PriceHandler) RentPrice(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("rent-price").Inc()

	vals := r.URL.Query()
	areaID, err := strconv.ParseUint(vals.Get("area_id"), 10, 64)
	if err != nil || areaID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"area_id": "entier positif attendu"})
		return
	}
	rooms, err := strconv.Atoi(vals.Get("rooms"))
	if err != nil || rooms < 1 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"rooms": "entier positif attendu"})
		return
	}
	period := vals.Get("construction_period")
	if period == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"construction_period": "required"})
		return
	}
	furnished := false
	if s := vals.Get("furnished"); s != "" {
		furnished, err = strconv.ParseBool(s)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"furnished": "booléen attendu"})
			return
		}
	}

	price, err := h.Svc.ForProperty(services.PropertyQuery{
		AreaID:             uint(areaID),
		PropertyType:       vals.Get("property_type"),
		RoomCount:          rooms,
		ConstructionPeriod: period,
		Furnished:          furnished,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAreaNotFound):
			httpx.JSONError(w, http.StatusNotFound, "area_not_found", nil)
		case errors.Is(err, services.ErrNoPrice):
			httpx.JSONError(w, http.StatusNotFound, "price_not_found", nil)
		case errors.Is(err, services.ErrAmbiguousPrice):
			httpx.JSONError(w, http.StatusInternalServerError, "price_grid_ambiguous", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "price_lookup_failed", nil)
		}
		return
	}

	resp := priceResponse{
		AreaID:             uint(areaID),
		PropertyType:       price.PropertyType,
		RoomCount:          price.RoomCount,
		ConstructionPeriod: price.ConstructionPeriod,
		Furnished:          price.Furnished,
		ReferencePrice:     price.ReferencePrice,
		MinPrice:           price.MinPrice,
		MaxPrice:           price.MaxPrice,
	}
	if s := vals.Get("surface"); s != "" {
		surface, err := strconv.ParseFloat(s, 64)
		if err != nil || surface <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"surface": "nombre positif attendu"})
			return
		}
		t := services.Totals(price, surface)
		resp.Totals = &t
	}
	httpx.JSON(w, http.StatusOK, resp)
}
