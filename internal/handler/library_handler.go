package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gamerec/internal/service"

	"github.com/go-chi/chi/v5"
)

const defaultLibraryPage = 100

type LibraryHandler struct {
	svc *service.LibraryService
}

func NewLibraryHandler(s *service.LibraryService) *LibraryHandler { return &LibraryHandler{svc: s} }

type libraryRequest struct {
	GameID int `json:"gameId"`
}

// @Summary Own library
// @Tags library
// @Security BearerAuth
// @Produce json
// @Param limit query int false "limit (default 100)"
// @Param offset query int false "offset"
// @Success 200 {array} models.LibraryEntry
// @Router /me/library [get]
func (h *LibraryHandler) GetMyLibrary(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = defaultLibraryPage
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Add a game to the own library
// @Tags library
// @Security BearerAuth
// @Accept json
// @Param body body libraryRequest true "game"
// @Success 204
// @Router /me/library [post]
func (h *LibraryHandler) PostMyLibrary(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req libraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID <= 0 {
		http.Error(w, "invalid body (gameId required)", http.StatusBadRequest)
		return
	}

	err := h.svc.Add(r.Context(), userID, req.GameID)
	if errors.Is(err, service.ErrGameNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Remove a game from the own library
// @Tags library
// @Security BearerAuth
// @Param gameId path int true "gameId"
// @Success 204
// @Router /me/library/{gameId} [delete]
func (h *LibraryHandler) DeleteMyLibrary(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	gameID, err := strconv.Atoi(chi.URLParam(r, "gameId"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	removed, err := h.svc.Remove(r.Context(), userID, gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !removed {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
