package service

import (
	"context"
	"fmt"

	"gamerec/internal/logging"
	"gamerec/internal/models"
)

type LibraryService struct {
	library LibraryStore
	games   GameLookup
}

func NewLibraryService(l LibraryStore, g GameLookup) *LibraryService {
	return &LibraryService{library: l, games: g}
}

// Add puts a known game in the user's library. Adding an owned game again is
// a no-op.
func (s *LibraryService) Add(ctx context.Context, userID, gameID int) error {
	// 1) the game must exist in the catalog
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game %d: %w", gameID, ErrGameNotFound)
	}

	// 2) upsert into the library
	return s.library.Add(ctx, userID, gameID)
}

// Remove reports whether the game was in the library.
func (s *LibraryService) Remove(ctx context.Context, userID, gameID int) (bool, error) {
	return s.library.Remove(ctx, userID, gameID)
}

// List returns the user's library joined with the game documents. Entries
// whose game left the catalog are skipped.
func (s *LibraryService) List(ctx context.Context, userID, limit, offset int) ([]models.LibraryEntry, error) {
	docs, err := s.library.GetByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(docs))
	for i, d := range docs {
		ids[i] = d.GameID
	}
	games, err := s.games.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	out := make([]models.LibraryEntry, 0, len(docs))
	for _, d := range docs {
		g, ok := byID[d.GameID]
		if !ok {
			logging.Debug().Int("userId", userID).Int("gameId", d.GameID).Msg("[library] game no longer in catalog")
			continue
		}
		out = append(out, models.LibraryEntry{AddedAt: d.AddedAt, Game: g})
	}
	return out, nil
}

// OwnedGames resolves the full library of a user to catalog games.
func (s *LibraryService) OwnedGames(ctx context.Context, userID int) ([]models.Game, error) {
	docs, err := s.library.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(docs))
	for i, d := range docs {
		ids[i] = d.GameID
	}
	return s.games.GetByIDs(ctx, ids)
}
