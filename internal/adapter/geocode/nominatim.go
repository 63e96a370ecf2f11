// Package geocode resolves freeform city names to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// Client is the forward-geocoding collaborator. Queries carry a fixed
// country hint; the first result wins.
type Client struct {
	baseURL string
	country string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, country string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		country: country,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.Named("Geocoder"),
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", c.country)

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "maghrebcar/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("geocoding request failed", zap.String("location", location), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service failed: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed longitude %q: %w", results[0].Lon, err)
	}
	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}
