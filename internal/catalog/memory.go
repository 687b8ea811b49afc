package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gamerec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Memory is a catalog held in a slice, paged like the remote backends.
type Memory struct {
	games        []models.Game
	pageSize     int
	defaultPages int
}

func NewMemory(games []models.Game, pageSize, defaultPages int) *Memory {
	if pageSize <= 0 {
		pageSize = 40
	}
	if defaultPages <= 0 {
		defaultPages = 1
	}
	return &Memory{
		games:        append([]models.Game(nil), games...),
		pageSize:     pageSize,
		defaultPages: defaultPages,
	}
}

// LoadMemory reads a JSON array of raw game documents and normalizes every
// entry the same way the Mongo repository does.
func LoadMemory(path string, pageSize, defaultPages int) (*Memory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var raws []map[string]any
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	games := make([]models.Game, 0, len(raws))
	for _, raw := range raws {
		games = append(games, models.GameFromRaw(bson.M(raw)))
	}
	return NewMemory(games, pageSize, defaultPages), nil
}

func (m *Memory) FetchAll(_ context.Context, pages int) ([]models.Game, error) {
	if pages <= 0 {
		pages = m.defaultPages
	}
	n := pages * m.pageSize
	if n > len(m.games) {
		n = len(m.games)
	}
	return append([]models.Game(nil), m.games[:n]...), nil
}

func (m *Memory) FetchByGenres(_ context.Context, genres []string) ([]models.Game, error) {
	return FilterByGenres(m.games, genres), nil
}

func (m *Memory) SearchByText(_ context.Context, query string) ([]models.Game, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Game{}
	if q == "" {
		return out, nil
	}
	for _, g := range m.games {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
		}
	}
	return out, nil
}

// GetByID returns the game with id, nil if unknown.
func (m *Memory) GetByID(_ context.Context, id int) (*models.Game, error) {
	for i := range m.games {
		if m.games[i].ID == id {
			g := m.games[i]
			return &g, nil
		}
	}
	return nil, nil
}

// GetByIDs returns the games in the order of ids; unknown ids are skipped.
func (m *Memory) GetByIDs(_ context.Context, ids []int) ([]models.Game, error) {
	byID := make(map[int]models.Game, len(m.games))
	for _, g := range m.games {
		if _, ok := byID[g.ID]; !ok {
			byID[g.ID] = g
		}
	}
	out := make([]models.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}
