package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImages(t *testing.T) {
	ad := &VehicleAd{}
	ad.NormalizeImages("")
	assert.Equal(t, []string{FallbackImageURL}, ad.ImageURLs)

	ad = &VehicleAd{}
	ad.NormalizeImages("http://files/legacy.jpg")
	assert.Equal(t, []string{"http://files/legacy.jpg"}, ad.ImageURLs)

	ad = &VehicleAd{ImageURLs: []string{"a", "b"}}
	ad.NormalizeImages("http://files/legacy.jpg")
	assert.Equal(t, []string{"a", "b"}, ad.ImageURLs)
}

func TestPrimaryImage(t *testing.T) {
	ad := &VehicleAd{ImageURLs: []string{"main", "side"}}
	assert.Equal(t, "main", ad.PrimaryImage())

	assert.Empty(t, (&VehicleAd{}).PrimaryImage())
}

func TestToggledFavorites(t *testing.T) {
	p := &Profile{Favorites: []int64{1, 2, 3}}

	added := p.ToggledFavorites(4)
	assert.Equal(t, []int64{1, 2, 3, 4}, added)

	removed := p.ToggledFavorites(2)
	assert.Equal(t, []int64{1, 3}, removed)

	// The receiver is never mutated.
	assert.Equal(t, []int64{1, 2, 3}, p.Favorites)
}

func TestToggledFavorites_Involution(t *testing.T) {
	p := &Profile{Favorites: []int64{7}}

	p.Favorites = p.ToggledFavorites(42)
	p.Favorites = p.ToggledFavorites(42)
	assert.Equal(t, []int64{7}, p.Favorites)
}

func TestHasFavorite(t *testing.T) {
	p := &Profile{Favorites: []int64{1, 2}}
	assert.True(t, p.HasFavorite(2))
	assert.False(t, p.HasFavorite(3))
}
