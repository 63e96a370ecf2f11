package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/nav"
)

// HandleGeocode resolves a free-text location to coordinates, going through
// the cached geocoder.
func (h *Handlers) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "location is required"})
		return
	}

	coords, err := h.geocoder.Geocode(r.Context(), location)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"location": location,
		"lat":      coords.Lat,
		"lng":      coords.Lng,
	})
}

func (h *Handlers) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": h.content.Posts(),
	})
}

func (h *Handlers) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
		return
	}

	post, err := h.content.Post(postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *Handlers) HandleListTestimonials(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"testimonials": h.content.Testimonials(),
	})
}

type testimonialRequest struct {
	AuthorName string `json:"authorName"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (h *Handlers) HandleAddTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AuthorName == "" || req.Rating < 1 || req.Rating > 5 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "author name and a 1-5 rating are required"})
		return
	}

	t := h.content.AddTestimonial(req.AuthorName, req.Rating, req.Comment)
	respondJSON(w, http.StatusCreated, t)
}

type navigateRequest struct {
	Page   string `json:"page"`
	AdID   *int64 `json:"adId,omitempty"`
	PostID *int64 `json:"postId,omitempty"`
}

// HandleNavigate drives the navigation machine. Payload-carrying pages
// resolve their payload here so the machine only ever holds real records.
func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	page := nav.Page(req.Page)
	var target nav.Target
	switch page {
	case nav.PageAdDetail:
		if req.AdID == nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "adId is required for AD_DETAIL"})
			return
		}
		ad, err := h.catalog.Find(*req.AdID)
		if err != nil {
			respondError(w, err)
			return
		}
		target = nav.AdDetail{Ad: ad}
	case nav.PageEditAd:
		if req.AdID == nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "adId is required for EDIT_AD"})
			return
		}
		ad, err := h.catalog.Find(*req.AdID)
		if err != nil {
			respondError(w, err)
			return
		}
		target = nav.EditAd{Ad: ad}
	case nav.PageBlogPost:
		if req.PostID == nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "postId is required for BLOG_POST"})
			return
		}
		post, err := h.content.Post(*req.PostID)
		if err != nil {
			respondError(w, err)
			return
		}
		target = nav.BlogPost{Post: post}
	default:
		if !nav.Known(page) {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown page"})
			return
		}
		target = nav.To(page)
	}

	h.nav.Navigate(target)
	h.respondNavState(w)
}

// HandleNavState reports the machine's current page and payload slots.
func (h *Handlers) HandleNavState(w http.ResponseWriter, r *http.Request) {
	h.respondNavState(w)
}

func (h *Handlers) respondNavState(w http.ResponseWriter) {
	state := map[string]interface{}{
		"page": h.nav.Current(),
	}
	if ad := h.nav.ViewingAd(); ad != nil {
		state["viewingAd"] = toAdView(ad)
	}
	if ad := h.nav.EditingAd(); ad != nil {
		state["editingAd"] = toAdView(ad)
	}
	if post := h.nav.ViewingPost(); post != nil {
		state["viewingPost"] = post
	}
	respondJSON(w, http.StatusOK, state)
}
