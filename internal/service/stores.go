package service

import (
	"context"

	"gamerec/internal/models"
)

// The services read and write through these interfaces; the Mongo
// repositories implement them, and catalog.Memory implements GameLookup.

type GameLookup interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.Game, error)
}

type LibraryStore interface {
	Add(ctx context.Context, userID, gameID int) error
	Remove(ctx context.Context, userID, gameID int) (bool, error)
	GetByUser(ctx context.Context, userID, limit, offset int) ([]models.LibraryDoc, error)
	GetAllByUser(ctx context.Context, userID int) ([]models.LibraryDoc, error)
}

type HistoryStore interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	FindByUser(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error)
}

type GenreStatsStore interface {
	ReplaceAll(ctx context.Context, buildID string, docs []models.GenreStatsDoc) error
}
