package router

import (
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/http/handler"
	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/http/middleware"
)

// New assembles the chi mux: CORS, request logging, recovery, then the
// public and JWT-protected route groups.
func New(h *handler.Handlers, jwtSecret, corsOrigin string, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()

	var origins []string
	for _, p := range strings.Split(corsOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(chimiddleware.Recoverer)

	// Public routes.
	mux.Post("/api/auth/register", h.HandleRegister)
	mux.Post("/api/auth/login", h.HandleLogin)
	mux.Post("/api/auth/verify", h.HandleVerify)
	mux.Post("/api/auth/forgot-password", h.HandleForgotPassword)
	mux.Post("/api/auth/reset-password", h.HandleResetPassword)

	mux.Get("/api/home", h.HandleHome)
	mux.Get("/api/ads", h.HandleListAds)
	mux.Get("/api/ads/search", h.HandleSearch)
	mux.Get("/api/ads/{id}", h.HandleGetAd)

	mux.Get("/api/blog", h.HandleListPosts)
	mux.Get("/api/blog/{id}", h.HandleGetPost)
	mux.Get("/api/testimonials", h.HandleListTestimonials)
	mux.Post("/api/testimonials", h.HandleAddTestimonial)
	mux.Get("/api/geocode", h.HandleGeocode)

	mux.Post("/api/navigate", h.HandleNavigate)
	mux.Get("/api/navigation", h.HandleNavState)

	// Routes requiring an authenticated user.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret))

		r.Post("/api/auth/logout", h.HandleLogout)

		r.Post("/api/ads", h.HandleCreateAd)
		r.Put("/api/ads/{id}", h.HandleUpdateAd)
		r.Delete("/api/ads/{id}", h.HandleDeleteAd)
		r.Post("/api/ads/{id}/photos", h.HandleUploadPhoto)

		r.Get("/api/dashboard", h.HandleDashboard)
		r.Get("/api/profile", h.HandleGetProfile)
		r.Put("/api/profile", h.HandleUpdateProfile)
		r.Post("/api/favorites/toggle", h.HandleToggleFavorite)
	})

	return mux
}
