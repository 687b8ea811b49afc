package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gamerec/internal/service"

	"github.com/go-chi/chi/v5"
)

// GenreAdminHandler exposes the genre graph to operators.
type GenreAdminHandler struct {
	svc *service.GenreAdminService
}

func NewGenreAdminHandler(svc *service.GenreAdminService) *GenreAdminHandler {
	return &GenreAdminHandler{svc: svc}
}

// @Summary Genre graph summary
// @Description Weight, frequency, degree and complementary genres of the current build.
// @Tags admin-genres
// @Security BearerAuth
// @Produce json
// @Param limit query int false "only the top N genres by weight"
// @Success 200 {object} models.GenreSummary
// @Router /admin/genres/summary [get]
func (h *GenreAdminHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	summary, err := h.svc.Summary(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// @Summary Genres related to a genre
// @Tags admin-genres
// @Security BearerAuth
// @Produce json
// @Param genre path string true "genre"
// @Param depth query int false "hops (default 2, max 5)"
// @Success 200 {object} models.RelatedGenres
// @Router /admin/genres/{genre}/related [get]
func (h *GenreAdminHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")

	depth := 0
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid depth", http.StatusBadRequest)
			return
		}
		depth = n
	}

	rel, err := h.svc.Related(r.Context(), genre, depth)
	if errors.Is(err, service.ErrUnknownGenre) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// @Summary Rebuild the genre graph
// @Tags admin-genres
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.GenreSummary
// @Router /admin/genres/rebuild [post]
func (h *GenreAdminHandler) PostRebuild(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Rebuild(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// MountGenreAdminRoutes registers the /admin/genres routes on r.
func MountGenreAdminRoutes(r chi.Router, h *GenreAdminHandler) {
	r.Route("/admin/genres", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Get("/{genre}/related", h.GetRelated)
		r.Post("/rebuild", h.PostRebuild)
	})
}
