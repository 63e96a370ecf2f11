package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// geocodeTTL bounds the geocode cache so it cannot grow without limit over
// a long-lived session.
const geocodeTTL = 24 * time.Hour

// ErrCacheMiss is returned when a location has not been cached yet.
var ErrCacheMiss = errors.New("cache miss")

type geocodeEntry struct {
	Found  bool                `json:"found"`
	Coords *domain.Coordinates `json:"coords,omitempty"`
}

// GeocodeCache stores forward-geocoding results, including not-found
// results, keyed by the raw location string.
type GeocodeCache struct {
	client *redis.Client
}

func NewGeocodeCache(client *redis.Client) *GeocodeCache {
	return &GeocodeCache{client: client}
}

// Get returns the cached coordinates, domain.ErrLocationNotFound for a
// cached miss, or ErrCacheMiss when the location has not been seen.
func (c *GeocodeCache) Get(ctx context.Context, location string) (*domain.Coordinates, error) {
	data, err := c.client.Get(ctx, "geo:"+location).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var entry geocodeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, domain.ErrLocationNotFound
	}
	return entry.Coords, nil
}

// Put caches a geocoding result; coords == nil records a not-found result.
func (c *GeocodeCache) Put(ctx context.Context, location string, coords *domain.Coordinates) error {
	entry := geocodeEntry{Found: coords != nil, Coords: coords}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "geo:"+location, data, geocodeTTL).Err()
}
