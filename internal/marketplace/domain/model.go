package domain

import "time"

// FallbackImageURL is shown when an ad was stored without any photo.
const FallbackImageURL = "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?q=80&w=800&h=600&auto=format&fit=crop"

// VehicleAd is a single vehicle listing. IDs are allocated by the ads
// repository from a numeric sequence, so ordering by id matches ordering
// by creation time.
type VehicleAd struct {
	ID          int64
	Title       string
	Price       float64
	Year        int
	Mileage     float64
	Location    string
	ImageURLs   []string
	Category    string
	OwnerID     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeImages guarantees ImageURLs is never empty: a single legacy
// image_url column value is promoted into the slice, and a stock fallback
// is substituted when there is nothing at all.
func (a *VehicleAd) NormalizeImages(legacyURL string) {
	if len(a.ImageURLs) == 0 && legacyURL != "" {
		a.ImageURLs = []string{legacyURL}
	}
	if len(a.ImageURLs) == 0 {
		a.ImageURLs = []string{FallbackImageURL}
	}
}

// PrimaryImage is the first image, kept in sync with the legacy single
// image_url column for older readers of the ads table.
func (a *VehicleAd) PrimaryImage() string {
	if len(a.ImageURLs) == 0 {
		return ""
	}
	return a.ImageURLs[0]
}

// Profile is the application user record, distinct from the raw auth
// identity. Rows are provisioned by the registration trigger, never by
// profile code itself.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	ImageURL  string
	Favorites []int64
}

// HasFavorite reports set membership of an ad id in the favorites sequence.
func (p *Profile) HasFavorite(adID int64) bool {
	for _, id := range p.Favorites {
		if id == adID {
			return true
		}
	}
	return false
}

// ToggledFavorites returns the favorites sequence with adID removed if
// present, appended otherwise. The receiver is not mutated; persistence and
// local state updates are the caller's job.
func (p *Profile) ToggledFavorites(adID int64) []int64 {
	if p.HasFavorite(adID) {
		out := make([]int64, 0, len(p.Favorites))
		for _, id := range p.Favorites {
			if id != adID {
				out = append(out, id)
			}
		}
		return out
	}
	out := make([]int64, len(p.Favorites), len(p.Favorites)+1)
	copy(out, p.Favorites)
	return append(out, adID)
}

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// SearchCriteria is the form state of the search bar. Year bounds are kept
// string-encoded as entered; values that fail to parse are treated as absent.
type SearchCriteria struct {
	Query    string
	Category string
	YearFrom string
	YearTo   string
}

// Coordinates is a forward-geocoding result.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BlogPost is static editorial content.
type BlogPost struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// Testimonial is a site review submitted from the contact page. Submissions
// are kept in memory only.
type Testimonial struct {
	ID         int64  `json:"id"`
	AuthorName string `json:"authorName"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	Date       string `json:"date"`
}
