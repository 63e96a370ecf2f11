package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/http/middleware"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/usecase"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type adRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Year        int     `json:"year"`
	Mileage     float64 `json:"mileage"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (r adRequest) toInput() usecase.AdInput {
	return usecase.AdInput{
		Title:       r.Title,
		Price:       r.Price,
		Year:        r.Year,
		Mileage:     r.Mileage,
		Location:    r.Location,
		Category:    r.Category,
		Description: r.Description,
	}
}

// HandleListAds returns the whole mirror plus the persistent setup banner
// state.
func (h *Handlers) HandleListAds(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ads":           toAdViews(h.catalog.Ads()),
		"setupRequired": h.catalog.SetupRequired(),
	})
}

// HandleHome returns the landing/home page payload.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"latestAds":      toAdViews(h.catalog.Latest(8)),
		"recommendedAds": toAdViews(h.catalog.Recommended(4)),
		"testimonials":   h.content.Testimonials(),
		"setupRequired":  h.catalog.SetupRequired(),
	})
}

// HandleGetAd returns the detail view: the ad, its owner, and similar ads.
func (h *Handlers) HandleGetAd(w http.ResponseWriter, r *http.Request) {
	adID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ad id"})
		return
	}

	ad, owner, similar, err := h.catalog.Detail(adID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ad":         toAdView(ad),
		"owner":      toProfileView(owner),
		"similarAds": toAdViews(similar),
	})
}

func (h *Handlers) HandleCreateAd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	var req adRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ad, err := h.catalog.PostAd(r.Context(), userID, req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAdView(ad))
}

func (h *Handlers) HandleUpdateAd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	adID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ad id"})
		return
	}
	var req adRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ad, err := h.catalog.UpdateAd(r.Context(), userID, adID, req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdView(ad))
}

func (h *Handlers) HandleDeleteAd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	adID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ad id"})
		return
	}

	if err := h.catalog.DeleteAd(r.Context(), userID, adID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// HandleUploadPhoto accepts a multipart photo and appends it to the ad's
// carousel.
func (h *Handlers) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	adID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ad id"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.logger.Error("failed to read uploaded photo", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read file"})
		return
	}

	url, err := h.catalog.AttachPhoto(r.Context(), userID, adID, header.Filename, data)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// HandleSearch evaluates the criteria from the query string against the
// current mirror.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := domain.SearchCriteria{
		Query:    q.Get("query"),
		Category: q.Get("category"),
		YearFrom: q.Get("yearFrom"),
		YearTo:   q.Get("yearTo"),
	}
	if criteria.Category == "" {
		criteria.Category = domain.CategoryAll
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": toAdViews(h.catalog.Search(criteria)),
	})
}

// HandleDashboard returns the signed-in user's ads and favorites.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := h.session.CurrentUser()
	if user == nil {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":        toProfileView(user),
		"userAds":     toAdViews(h.catalog.ByOwner(user.ID)),
		"favoriteAds": toAdViews(h.catalog.FavoriteAds(user.Favorites)),
	})
}
