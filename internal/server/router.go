package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/zone-api/internal/handlers"
	"github.com/diewo77/zone-api/internal/httpx"
	"github.com/diewo77/zone-api/internal/metrics"
	"github.com/diewo77/zone-api/internal/middleware"
	"github.com/diewo77/zone-api/internal/services"
	"github.com/diewo77/zone-api/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, geocoder services.Geocoder) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1) – no detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	areas := store.NewAreaStore(db)
	prices := store.NewPriceStore(db)
	static := store.NewStaticZoneStore(db)

	resolver := services.NewResolver(geocoder, areas, prices, static, services.DefaultPolicies())
	zh := handlers.NewZoneHandler(resolver)
	mux.Handle("/check-zone", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		zh.CheckZone(w, r)
	}))

	priceSvc := services.NewPriceService(areas, prices)
	ph := handlers.NewPriceHandler(priceSvc)
	mux.Handle("/rent-price", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		ph.RentPrice(w, r)
	}))

	mux.Handle("/metrics", metrics.Handler())

	return middleware.RateLimit(mux)
}
