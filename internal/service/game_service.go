// internal/service/game_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"gamerec/internal/catalog"
	"gamerec/internal/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameService struct {
	catalog catalog.Catalog
	games   GameLookup
}

func NewGameService(c catalog.Catalog, g GameLookup) *GameService {
	return &GameService{catalog: c, games: g}
}

func (s *GameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("game %d: %w", id, ErrGameNotFound)
	}
	return g, nil
}

func (s *GameService) Search(ctx context.Context, q string) ([]models.Game, error) {
	return s.catalog.SearchByText(ctx, q)
}

// FetchPage returns the first pages pages of the catalog; 0 means default.
func (s *GameService) FetchPage(ctx context.Context, pages int) ([]models.Game, error) {
	return s.catalog.FetchAll(ctx, pages)
}

func (s *GameService) ByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	return s.catalog.FetchByGenres(ctx, genres)
}
