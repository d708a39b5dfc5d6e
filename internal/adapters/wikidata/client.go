package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/platform/httpx"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

const defaultBaseURL = "https://www.wikidata.org/w/api.php"

// coordinateProperty is the "coordinate location" property on Wikidata.
const coordinateProperty = "P625"

// Client resolves entity coordinates from the Wikidata claims API.
// Safe for concurrent use.
type Client struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

// NewClient builds a Wikidata client. baseURL is the api.php endpoint
// (empty means wikidata.org); userAgent must identify this service per
// the Wikimedia API etiquette.
func NewClient(baseURL, userAgent string) (*Client, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("wikidata client: user agent is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
	}, nil
}

type claimsResponse struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datavalue struct {
				Value struct {
					Latitude  float64 `json:"latitude"`
					Longitude float64 `json:"longitude"`
				} `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
}

// EntityCoordinates fetches the coordinate-location claim of an entity.
// Entities without the claim report ok=false, not an error.
func (c *Client) EntityCoordinates(ctx context.Context, entityID string) (domain.Coordinates, bool, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return domain.Coordinates{}, false, errors.New("get entity coordinates: entity id is empty")
	}

	resp, err := httpx.DoWithRetry(ctx, c.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("action", "wbgetclaims")
		q.Set("entity", entityID)
		q.Set("property", coordinateProperty)
		q.Set("format", "json")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get entity coordinates %s: %w", entityID, err)
	}
	defer resp.Body.Close()

	var decoded claimsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get entity coordinates %s: decode response: %w", entityID, err)
	}

	claims := decoded.Claims[coordinateProperty]
	if len(claims) == 0 {
		return domain.Coordinates{}, false, nil
	}

	v := claims[0].Mainsnak.Datavalue.Value
	coord := domain.Coordinates{Lat: v.Latitude, Lon: v.Longitude}
	if err := coord.Validate(); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get entity coordinates %s: %w", entityID, err)
	}
	return coord, true, nil
}

var _ ports.KnowledgeBase = (*Client)(nil)
