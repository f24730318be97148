// Package geocoding resolves place names to coordinates through Nominatim
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org/search"
	userAgent      = "ParkTerminal/1.0" // Nominatim rejects requests without one
	minInterval    = time.Second        // usage policy: at most one request per second
)

// ErrNotFound is returned when Nominatim has no match for a query
var ErrNotFound = errors.New("location not found")

// Location is a geocoded place
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Geocoder converts free-text places to coordinates
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
	lastCall   time.Time
	mu         sync.Mutex
}

// NewGeocoder creates a geocoder against baseURL. Empty uses DefaultBaseURL.
func NewGeocoder(baseURL string) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Geocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode looks up query (a city and state, zip code or landmark) within the US
func (g *Geocoder) Geocode(ctx context.Context, query string) (Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Location{}, errors.New("query cannot be empty")
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")
	params.Set("q", query)

	if err := g.wait(ctx); err != nil {
		return Location{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocoding %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) == 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing longitude: %w", err)
	}
	return Location{Latitude: lat, Longitude: lon, Name: r.DisplayName}, nil
}

// wait spaces calls at least minInterval apart
func (g *Geocoder) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastCall.IsZero() {
		if d := minInterval - time.Since(g.lastCall); d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	g.lastCall = time.Now()
	return nil
}
