package handler

import (
	"net/http"
	"time"

	"gamerec/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Games      *GameHandler
	Library    *LibraryHandler
	Recommend  *RecommendHandler
	GenreAdmin *GenreAdminHandler
}

func NewRouter(h Handlers, jwtSecret string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// =============
	// Public routes
	// =============
	r.Get("/health", Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/games", h.Games.List)
	r.Get("/games/search", h.Games.Search)
	r.Get("/games/genres", h.Games.ByGenres)
	r.Get("/games/{id}", h.Games.GetGame)

	r.Post("/recommendations", h.Recommend.PostRecommendations)

	// ===========================
	// JWT-protected routes
	// ===========================
	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret))

		r.Route("/me", func(r chi.Router) {
			r.Get("/library", h.Library.GetMyLibrary)
			r.Post("/library", h.Library.PostMyLibrary)
			r.Delete("/library/{gameId}", h.Library.DeleteMyLibrary)
			r.Get("/recommendations", h.Recommend.GetMyRecommendations)
		})

		// ---- admin only ----
		r.Group(func(r chi.Router) {
			r.Use(AdminOnly())

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/recommendations", h.Recommend.GetRecommendations)
				r.Get("/recommendations/history", h.Recommend.GetHistory)
				r.Get("/ws/recommendations", h.Recommend.GetRecommendationsWS)
			})

			MountGenreAdminRoutes(r, h.GenreAdmin)
		})
	})

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logging.Info().
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("[http] request")
	})
}
