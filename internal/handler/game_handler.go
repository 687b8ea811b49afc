// internal/handler/game_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gamerec/internal/service"

	"github.com/go-chi/chi/v5"
)

const maxCatalogPages = 20

type GameHandler struct {
	svc *service.GameService
}

func NewGameHandler(s *service.GameService) *GameHandler { return &GameHandler{svc: s} }

// @Summary Get game
// @Tags games
// @Produce json
// @Param id path int true "gameId"
// @Success 200 {object} models.Game
// @Router /games/{id} [get]
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	g, err := h.svc.GetGame(r.Context(), id)
	if errors.Is(err, service.ErrGameNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// @Summary Search games by name
// @Tags games
// @Produce json
// @Param q query string true "text"
// @Success 200 {array} models.Game
// @Router /games/search [get]
func (h *GameHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	games, err := h.svc.Search(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// @Summary List catalog pages
// @Tags games
// @Produce json
// @Param pages query int false "pages (default from config)"
// @Success 200 {array} models.Game
// @Router /games [get]
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	pages := 0
	if v := r.URL.Query().Get("pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid pages", http.StatusBadRequest)
			return
		}
		pages = n
	}
	if pages > maxCatalogPages {
		pages = maxCatalogPages
	}

	games, err := h.svc.FetchPage(r.Context(), pages)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// @Summary Games matching any of the genres
// @Tags games
// @Produce json
// @Param genre query []string true "genre (repeatable)"
// @Success 200 {array} models.Game
// @Router /games/genres [get]
func (h *GameHandler) ByGenres(w http.ResponseWriter, r *http.Request) {
	var genres []string
	for _, g := range r.URL.Query()["genre"] {
		for _, part := range strings.Split(g, ",") {
			if part = strings.TrimSpace(part); part != "" {
				genres = append(genres, part)
			}
		}
	}
	if len(genres) == 0 {
		http.Error(w, "at least one genre is required", http.StatusBadRequest)
		return
	}

	games, err := h.svc.ByGenres(r.Context(), genres)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, games)
}
