package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/usecase"
)

// HandleGetProfile returns the signed-in user's local profile state.
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := h.session.CurrentUser()
	if user == nil {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	respondJSON(w, http.StatusOK, toProfileView(user))
}

// HandleUpdateProfile accepts a multipart form so the avatar can ride along
// with the text fields. The avatar part is optional.
func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	in := usecase.ProfileUpdate{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("address"),
	}

	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			h.logger.Error("failed to read uploaded avatar", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read file"})
			return
		}
		in.ImageName = header.Filename
		in.ImageData = data
	}

	if err := h.session.UpdateProfile(r.Context(), in); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileView(h.session.CurrentUser()))
}

type favoriteRequest struct {
	AdID int64 `json:"adId"`
}

// HandleToggleFavorite flips an ad in or out of the favorites set and
// returns the updated set.
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AdID <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ad id"})
		return
	}

	if err := h.session.ToggleFavorite(r.Context(), req.AdID); err != nil {
		respondError(w, err)
		return
	}

	user := h.session.CurrentUser()
	if user == nil {
		respondError(w, domain.ErrNotLoggedIn)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": user.Favorites,
	})
}
