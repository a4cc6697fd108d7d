package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zoneapi_requests_total",
		Help: "Total number of API requests",
	}, []string{"endpoint"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "zoneapi_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	EmptyResolutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zoneapi_empty_resolutions_total",
		Help: "Resolutions that found no rent-control data",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zoneapi_geocode_requests_total",
		Help: "Outbound BAN geocoding requests",
	})
	GeocodeFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zoneapi_geocode_fail_total",
		Help: "Failed BAN geocoding requests by kind",
	}, []string{"kind"})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "zoneapi_geocode_duration_ms",
		Help:    "BAN call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zoneapi_geocode_cache_hits_total",
		Help: "Geocode cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zoneapi_geocode_cache_misses_total",
		Help: "Geocode cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(EmptyResolutionsTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler exposes the registered collectors; mounted at /metrics by the router.
func Handler() http.Handler { return promhttp.Handler() }
