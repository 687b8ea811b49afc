package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gamerec/internal/catalog"
	"gamerec/internal/models"
	"gamerec/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memLibrary struct {
	mu   sync.Mutex
	docs map[int][]models.LibraryDoc
}

func (m *memLibrary) Add(_ context.Context, userID, gameID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs[userID] {
		if d.GameID == gameID {
			return nil
		}
	}
	m.docs[userID] = append(m.docs[userID], models.LibraryDoc{UserID: userID, GameID: gameID})
	return nil
}

func (m *memLibrary) Remove(_ context.Context, userID, gameID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[userID]
	for i, d := range docs {
		if d.GameID == gameID {
			m.docs[userID] = append(docs[:i:i], docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memLibrary) GetByUser(_ context.Context, userID, _, _ int) ([]models.LibraryDoc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.LibraryDoc{}, m.docs[userID]...), nil
}

func (m *memLibrary) GetAllByUser(ctx context.Context, userID int) ([]models.LibraryDoc, error) {
	return m.GetByUser(ctx, userID, 0, 0)
}

func testGames() []models.Game {
	return []models.Game{
		{ID: 1, Name: "Doom", Genres: []string{"Action", "Shooter"}},
		{ID: 2, Name: "Diablo", Genres: []string{"Action", "RPG"}},
		{ID: 3, Name: "Skyrim", Genres: []string{"RPG"}},
		{ID: 4, Name: "Portal", Genres: []string{"Puzzle"}},
		{ID: 5, Name: "Halo", Genres: []string{"Shooter"}},
		{ID: 6, Name: "Tetris", Genres: []string{"Puzzle"}},
		{ID: 7, Name: "Mass Effect", Genres: []string{"RPG", "Shooter"}},
		{ID: 8, Name: "Forza", Genres: []string{"Racing"}},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *memLibrary) {
	t.Helper()
	mem := catalog.NewMemory(testGames(), 40, 1)
	lib := &memLibrary{docs: make(map[int][]models.LibraryDoc)}

	store := service.NewModelStore(mem, nil, 1, time.Hour)
	libSvc := service.NewLibraryService(lib, mem)
	recSvc := service.NewRecommendService(mem, libSvc, mem, store, nil, service.RecommendConfig{Timeout: time.Second})

	return NewRouter(Handlers{
		Games:      NewGameHandler(service.NewGameService(mem, mem)),
		Library:    NewLibraryHandler(libSvc),
		Recommend:  NewRecommendHandler(recSvc),
		GenreAdmin: NewGenreAdminHandler(service.NewGenreAdminService(store)),
	}, testSecret), lib
}

func token(t *testing.T, userID int, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) service.RecResult {
	t.Helper()
	var res service.RecResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGames_GetAndNotFound(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/games/3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var g models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, "Skyrim", g.Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/99", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/games/abc", "", "").Code)
}

func TestGames_SearchAndGenres(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/games/search?q=hal", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, 5, found[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/games/search", "", "").Code)

	rec = do(t, h, http.MethodGet, "/games/genres?genre=Racing&genre=Puzzle", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var byGenre []models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byGenre))
	assert.Len(t, byGenre, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/games/genres", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/games?pages=x", "", "").Code)
}

func TestAnonymousRecommendations(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/recommendations", `{"ownedGameIds":[1,3]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	assert.NotEmpty(t, res.Items)
	assert.LessOrEqual(t, len(res.Items), 6)
	for _, g := range res.Items {
		assert.NotContains(t, []int{1, 3}, g.ID)
	}

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/recommendations", `{`, "").Code)
}

func TestAnonymousRecommendations_NoGamesUsesCatalogHead(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/recommendations", `{"ownedGameIds":[]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	require.Len(t, res.Items, 6)
	assert.Equal(t, 1, res.Items[0].ID)
}

func TestMe_RequiresToken(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/me/library", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/me/library", "", "not-a-token").Code)
}

func TestJWTAuth_RejectsBadClaims(t *testing.T) {
	h, _ := newTestRouter(t)
	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"zero sub":     sign(jwt.MapClaims{"sub": 0, "exp": exp}, testSecret),
		"string sub":   sign(jwt.MapClaims{"sub": "7", "exp": exp}, testSecret),
		"wrong secret": sign(jwt.MapClaims{"sub": 7, "exp": exp}, "other-secret"),
		"expired":      sign(jwt.MapClaims{"sub": 7, "exp": time.Now().Add(-time.Hour).Unix()}, testSecret),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/me/library", "", tok)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	ok := do(t, h, http.MethodGet, "/me/library", "", token(t, 7, "user"))
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestMe_LibraryLifecycle(t *testing.T) {
	h, lib := newTestRouter(t)
	tok := token(t, 42, "user")

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/me/library", `{"gameId":2}`, tok).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/me/library", `{"gameId":999}`, tok).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/me/library", `{}`, tok).Code)
	assert.Len(t, lib.docs[42], 1)

	rec := do(t, h, http.MethodGet, "/me/library", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.LibraryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Diablo", entries[0].Game.Name)

	rec = do(t, h, http.MethodGet, "/me/recommendations", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, g := range decodeResult(t, rec).Items {
		assert.NotEqual(t, 2, g.ID)
	}

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/me/library/2", "", tok).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/me/library/2", "", tok).Code)
}

func TestAdmin_RoutesRequireAdminRole(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/admin/genres/summary", "", token(t, 1, "user")).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/users/1/recommendations", "", token(t, 1, "user")).Code)
}

func TestAdmin_GenreRoutes(t *testing.T) {
	h, _ := newTestRouter(t)
	tok := token(t, 1, "admin")

	rec := do(t, h, http.MethodGet, "/admin/genres/summary", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum models.GenreSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 5, sum.Genres)

	rec = do(t, h, http.MethodGet, "/admin/genres/Action/related?depth=1", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var rel models.RelatedGenres
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rel))
	assert.Equal(t, []string{"RPG", "Shooter"}, rel.Related)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/admin/genres/Horror/related", "", tok).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/admin/genres/Action/related?depth=-1", "", tok).Code)

	rec = do(t, h, http.MethodPost, "/admin/genres/rebuild", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var rebuilt models.GenreSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rebuilt))
	assert.NotEqual(t, sum.BuildID, rebuilt.BuildID)
}

func TestAdmin_UserRecommendations(t *testing.T) {
	h, lib := newTestRouter(t)
	lib.docs[7] = []models.LibraryDoc{{UserID: 7, GameID: 4}}

	rec := do(t, h, http.MethodGet, "/users/7/recommendations?refresh=true", "", token(t, 1, "admin"))
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.NotEmpty(t, res.Items)
	for _, g := range res.Items {
		assert.NotEqual(t, 4, g.ID)
	}

	rec = do(t, h, http.MethodGet, "/users/7/recommendations/history", "", token(t, 1, "admin"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAdmin_RecommendationStream(t *testing.T) {
	h, lib := newTestRouter(t)
	lib.docs[3] = []models.LibraryDoc{{UserID: 3, GameID: 1}}

	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/users/3/ws/recommendations"
	header := http.Header{"Authorization": []string{"Bearer " + token(t, 1, "admin")}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var frames []wsMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var m wsMessage
		require.NoError(t, conn.ReadJSON(&m))
		frames = append(frames, m)
		if m.Type == "recommendations" || m.Type == "error" {
			break
		}
	}

	require.GreaterOrEqual(t, len(frames), 4)
	assert.Equal(t, "start", frames[0].Type)
	assert.Equal(t, "stage", frames[1].Type)
	assert.Equal(t, "advanced", frames[1].Stage)
	assert.Equal(t, "start", frames[1].Event)

	last := frames[len(frames)-1]
	assert.Equal(t, "recommendations", last.Type)
	assert.Equal(t, 3, last.UserID)
	assert.NotEmpty(t, last.RequestID)
}
