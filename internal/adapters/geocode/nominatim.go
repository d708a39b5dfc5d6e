package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/platform/httpx"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim resolves free-text place queries against the OpenStreetMap
// Nominatim search API. Safe for concurrent use; callers are expected to
// go through the override cache so each query hits the API once.
type Nominatim struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

// NewNominatim builds a geocoder. baseURL is the service root (empty
// means the public OSM instance); userAgent must identify this service
// per the Nominatim usage policy.
func NewNominatim(baseURL, userAgent string) (*Nominatim, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim client: user agent is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Nominatim{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
	}, nil
}

// Nominatim encodes lat/lon as JSON strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves the best match for a query. No match reports
// ok=false, not an error.
func (n *Nominatim) Geocode(ctx context.Context, query string) (domain.Coordinates, bool, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return domain.Coordinates{}, false, errors.New("geocode: query is empty")
	}

	endpoint := n.baseURL + "/search"
	resp, err := httpx.DoWithRetry(ctx, n.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", n.userAgent)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: decode response: %w", query, err)
	}
	if len(decoded) == 0 {
		return domain.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: parse lat %q: %w", query, decoded[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: parse lon %q: %w", query, decoded[0].Lon, err)
	}

	coord := domain.Coordinates{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: %w", query, err)
	}
	return coord, true, nil
}

var _ ports.Geocoder = (*Nominatim)(nil)
