package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/content"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/nav"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/usecase"
)

// Handlers is the HTTP surface over the application core.
type Handlers struct {
	catalog  *usecase.CatalogUsecase
	session  *usecase.SessionUsecase
	auth     *auth.Service
	nav      *nav.Machine
	content  *content.Store
	geocoder domain.Geocoder
	logger   *zap.Logger
}

func New(catalog *usecase.CatalogUsecase, session *usecase.SessionUsecase, authSvc *auth.Service, machine *nav.Machine, store *content.Store, geocoder domain.Geocoder, logger *zap.Logger) *Handlers {
	return &Handlers{
		catalog:  catalog,
		session:  session,
		auth:     authSvc,
		nav:      machine,
		content:  store,
		geocoder: geocoder,
		logger:   logger.Named("handler"),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps domain and auth errors onto HTTP statuses, passing the
// raw message through the way alerts do.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAdNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrOwnerMissing),
		errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, content.ErrPostNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, auth.ErrEmailNotVerified):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotLoggedIn),
		errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrCodeInvalid):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

type adView struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Year        int      `json:"year"`
	Mileage     float64  `json:"mileage"`
	Location    string   `json:"location"`
	ImageURLs   []string `json:"imageUrls"`
	Category    string   `json:"category"`
	OwnerID     string   `json:"ownerId"`
	Description string   `json:"description"`
}

func toAdView(ad *domain.VehicleAd) adView {
	return adView{
		ID:          ad.ID,
		Title:       ad.Title,
		Price:       ad.Price,
		Year:        ad.Year,
		Mileage:     ad.Mileage,
		Location:    ad.Location,
		ImageURLs:   ad.ImageURLs,
		Category:    ad.Category,
		OwnerID:     ad.OwnerID,
		Description: ad.Description,
	}
}

func toAdViews(ads []*domain.VehicleAd) []adView {
	views := make([]adView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, toAdView(ad))
	}
	return views
}

type profileView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Address   string  `json:"address,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Favorites []int64 `json:"favorites"`
}

func toProfileView(p *domain.Profile) profileView {
	favorites := p.Favorites
	if favorites == nil {
		favorites = []int64{}
	}
	return profileView{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		ImageURL:  p.ImageURL,
		Favorites: favorites,
	}
}
