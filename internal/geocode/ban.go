// Package geocode talks to the BAN (Base Adresse Nationale) to turn
// coordinates or free-text addresses into commune identifiers.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diewo77/zone-api/internal/metrics"
)

// DefaultBaseURL is the public BAN endpoint. Overridable for tests and for
// the self-hosted addok instances some deployments use.
const DefaultBaseURL = "https://api-adresse.data.gouv.fr"

var (
	// ErrUpstreamUnavailable: the BAN could not be reached or answered non-2xx.
	// Callers degrade to "no zone data", they do not surface this to clients.
	ErrUpstreamUnavailable = errors.New("geocode: service BAN indisponible")
	// ErrNoMatch: the BAN answered but found nothing for the query.
	ErrNoMatch = errors.New("geocode: aucun resultat")
	// ErrOutOfRange: coordinates outside valid lat/lng bounds.
	ErrOutOfRange = errors.New("geocode: coordonnees hors limites")
)

// Address is the commune-level result of a geocoding call.
type Address struct {
	CommuneCode string // code INSEE (properties.citycode)
	CommuneName string
	PostalCode  string
	Label       string
	Lat         float64
	Lng         float64
}

// Client is a thin BAN client. One outbound call per invocation, bounded
// timeout, no retry; the caller owns throttling decisions (the upstream is
// rate-limited).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client with the given timeout (10s when zero).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label    string `json:"label"`
			CityCode string `json:"citycode"`
			City     string `json:"city"`
			PostCode string `json:"postcode"`
		} `json:"properties"`
	} `json:"features"`
}

// Reverse resolves coordinates to a commune via /reverse.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrOutOfRange
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	return c.call(ctx, "/reverse/?"+q.Encode())
}

// Search resolves a free-text address to coordinates and a commune via
// /search. Only the best-scored feature is used.
func (c *Client) Search(ctx context.Context, query string) (*Address, error) {
	if query == "" {
		return nil, ErrNoMatch
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")
	return c.call(ctx, "/search/?"+q.Encode())
}

func (c *Client) call(ctx context.Context, path string) (*Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	metrics.GeocodeRequestsTotal.Inc()
	t0 := time.Now()
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	metrics.GeocodeDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GeocodeFailTotal.WithLabelValues("status").Inc()
		return nil, fmt.Errorf("%w: statut %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(fc.Features) == 0 {
		metrics.GeocodeFailTotal.WithLabelValues("empty").Inc()
		return nil, ErrNoMatch
	}
	f := fc.Features[0]
	addr := &Address{
		CommuneCode: f.Properties.CityCode,
		CommuneName: f.Properties.City,
		PostalCode:  f.Properties.PostCode,
		Label:       f.Properties.Label,
	}
	if len(f.Geometry.Coordinates) >= 2 {
		addr.Lng = f.Geometry.Coordinates[0]
		addr.Lat = f.Geometry.Coordinates[1]
	}
	return addr, nil
}
