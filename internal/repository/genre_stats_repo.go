package repository

import (
	"context"

	"gamerec/internal/db"
	"gamerec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GenreStatsRepository keeps the per-genre view of the latest model build.
type GenreStatsRepository struct {
	col *mongo.Collection
}

func NewGenreStatsRepository() *GenreStatsRepository {
	return &GenreStatsRepository{col: db.DB().Collection("genre_stats")}
}

// ReplaceAll stores docs as the current build and drops older builds.
func (r *GenreStatsRepository) ReplaceAll(ctx context.Context, buildID string, docs []models.GenreStatsDoc) error {
	if len(docs) > 0 {
		writes := make([]mongo.WriteModel, 0, len(docs))
		for i := range docs {
			docs[i].BuildID = buildID
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"genre": docs[i].Genre}).
				SetReplacement(docs[i]).
				SetUpsert(true))
		}
		if _, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return err
		}
	}

	_, err := r.col.DeleteMany(ctx, bson.M{"buildId": bson.M{"$ne": buildID}})
	return err
}
