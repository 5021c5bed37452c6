// Package places wraps the geocoding and nearby-search HTTP API and the
// distance math the map screen needs.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
)

const earthRadiusMeters = 6371000

// Place is a single nearby-search result.
type Place struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Location core.Location `json:"location"`
	Distance float64       `json:"distance"`
}

// Client calls the places API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ReverseGeocode resolves coordinates to a formatted address.
func (c *Client) ReverseGeocode(ctx context.Context, loc core.Location) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))

	var out struct {
		Address string `json:"address"`
	}
	if err := c.get(ctx, "/geocode/reverse", q, &out); err != nil {
		return "", err
	}
	return out.Address, nil
}

// NearbySearch returns places within radius meters of the given point,
// each annotated with its distance from that point.
func (c *Client) NearbySearch(ctx context.Context, loc core.Location, radiusMeters int) ([]Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusMeters))

	var out struct {
		Results []struct {
			Name     string  `json:"name"`
			Type     string  `json:"type"`
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/places/nearby", q, &out); err != nil {
		return nil, err
	}

	places := make([]Place, len(out.Results))
	for i, r := range out.Results {
		target := core.Location{Latitude: r.Lat, Longitude: r.Lng}
		places[i] = Place{
			Name:     r.Name,
			Type:     r.Type,
			Location: target,
			Distance: Distance(loc, target),
		}
	}
	return places, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

// Distance returns the great-circle distance in meters between two points
// using the spherical law of cosines.
func Distance(a, b core.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	// Guard against rounding pushing the cosine out of range
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * earthRadiusMeters
}

// FormatDistance renders meters the way the map list shows them, "150m"
// under a kilometer and "1.2km" above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
