// Package geocode resolves listing addresses to coordinates through the
// PositionStack forward-geocoding API.
package geocode

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"locamoi-scraper/models"
)

const forwardEndpoint = "http://api.positionstack.com/v1/forward"

// Client calls the PositionStack forward endpoint. Every failure mode —
// transport error, bad status, empty result set, unparseable coordinates —
// maps to "unresolved"; a geocoding call never surfaces an error.
type Client struct {
	httpClient *http.Client
	apiKey     string
	country    string
	endpoint   string
}

// NewClient creates a Client restricted to the given ISO2 country code
// (empty string disables the restriction).
func NewClient(apiKey, country string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		country:    country,
		endpoint:   forwardEndpoint,
	}
}

// Forward resolves one address to its best-match coordinates. ok is false
// when the address is unresolved.
func (c *Client) Forward(address string) (models.Coordinates, bool) {
	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("query", address)
	params.Set("limit", "1")
	if c.country != "" {
		params.Set("country", c.country)
	}

	resp, err := c.httpClient.Get(c.endpoint + "?" + params.Encode())
	if err != nil {
		return models.Coordinates{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, false
	}

	var payload struct {
		Data []struct {
			Latitude  any `json:"latitude"`
			Longitude any `json:"longitude"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Coordinates{}, false
	}
	if len(payload.Data) == 0 {
		return models.Coordinates{}, false
	}

	lat, okLat := coordFloat(payload.Data[0].Latitude)
	lon, okLon := coordFloat(payload.Data[0].Longitude)
	if !okLat || !okLon {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Lat: lat, Lon: lon}, true
}

// coordFloat coerces a coordinate that the API may return as a JSON number
// or a numeric string.
func coordFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
