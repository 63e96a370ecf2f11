package geocode

import (
	"context"
	"errors"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// ResultCache is the slice of the redis geocode cache this wrapper needs.
type ResultCache interface {
	Get(ctx context.Context, location string) (*domain.Coordinates, error)
	Put(ctx context.Context, location string, coords *domain.Coordinates) error
}

// CachedGeocoder wraps a geocoder with the redis-backed result cache.
// Misses (location not found) are cached like hits so repeated lookups of a
// bad city name do not hammer the upstream service. Transport errors are
// never cached.
type CachedGeocoder struct {
	inner domain.Geocoder
	cache ResultCache
}

func NewCachedGeocoder(inner domain.Geocoder, c ResultCache) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: c}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	coords, err := g.cache.Get(ctx, location)
	if err == nil {
		return coords, nil
	}
	if errors.Is(err, domain.ErrLocationNotFound) {
		return nil, domain.ErrLocationNotFound
	}
	// Cache miss or cache failure: fall through to the upstream service.

	coords, err = g.inner.Geocode(ctx, location)
	switch {
	case err == nil:
		_ = g.cache.Put(ctx, location, coords)
		return coords, nil
	case errors.Is(err, domain.ErrLocationNotFound):
		_ = g.cache.Put(ctx, location, nil)
		return nil, domain.ErrLocationNotFound
	default:
		return nil, err
	}
}
