package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gamerec/internal/logging"
	"gamerec/internal/recommend"
	"gamerec/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const maxOwnedGameIDs = 500

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

type recommendRequest struct {
	OwnedGameIDs []int `json:"ownedGameIds"`
}

// @Summary Recommendations for a list of owned games
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body recommendRequest true "owned games"
// @Success 200 {object} service.RecResult
// @Router /recommendations [post]
func (h *RecommendHandler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if len(req.OwnedGameIDs) > maxOwnedGameIDs {
		http.Error(w, "too many owned games", http.StatusBadRequest)
		return
	}

	res, err := h.svc.RecommendForGames(r.Context(), req.OwnedGameIDs, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Recommendations for the caller
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "true skips the Redis cache"
// @Success 200 {object} service.RecResult
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendFor(w, r, UserIDFromContext(r.Context()))
}

// @Summary Recommendations for a user
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param refresh query bool false "true skips the Redis cache"
// @Success 200 {object} service.RecResult
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	h.recommendFor(w, r, userID)
}

func (h *RecommendHandler) recommendFor(w http.ResponseWriter, r *http.Request, userID int) {
	res, err := h.svc.RecommendForUser(r.Context(), service.RecRequest{
		UserID:  userID,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Recommendation history of a user
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param limit query int false "limit (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /users/{id}/recommendations/history [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	recs, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is one frame of the recommendation stream.
type wsMessage struct {
	Type        string     `json:"type"`
	Stage       string     `json:"stage,omitempty"`
	Event       string     `json:"event,omitempty"`
	Items       any        `json:"items,omitempty"`
	Error       string     `json:"error,omitempty"`
	RequestID   string     `json:"requestId,omitempty"`
	UserID      int        `json:"userId,omitempty"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

// wsStream forwards stage events to a websocket. gorilla allows a single
// concurrent writer, hence the mutex.
type wsStream struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsStream) send(m wsMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(m); err != nil {
		logging.Debug().Err(err).Msg("[ws] write failed")
	}
}

func (s *wsStream) OnStage(ev recommend.StageEvent) {
	m := wsMessage{Type: "stage", Stage: string(ev.Stage), Event: string(ev.Kind)}
	if ev.Kind == recommend.EventEnd {
		m.Items = ev.Items
	}
	if ev.Err != nil {
		m.Error = ev.Err.Error()
	}
	s.send(m)
}

// @Summary Recommendations streamed over WebSocket
// @Description Sends one "stage" frame per pipeline transition, then a "recommendations" frame.
// @Tags recommend
// @Security BearerAuth
// @Param id path int true "userId"
// @Param refresh query bool false "true skips the Redis cache"
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied
		return
	}
	defer conn.Close()

	stream := &wsStream{conn: conn}
	stream.send(wsMessage{Type: "start", UserID: userID})

	res, err := h.svc.RecommendForUser(r.Context(), service.RecRequest{
		UserID:   userID,
		Refresh:  r.URL.Query().Get("refresh") == "true",
		Observer: stream,
	})
	if err != nil {
		stream.send(wsMessage{Type: "error", Error: err.Error()})
		return
	}

	now := time.Now()
	stream.send(wsMessage{
		Type:        "recommendations",
		RequestID:   res.RequestID,
		UserID:      userID,
		Items:       res.Items,
		GeneratedAt: &now,
	})
}
