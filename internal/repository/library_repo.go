package repository

import (
	"context"
	"time"

	"gamerec/internal/db"
	"gamerec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LibraryRepository struct {
	col *mongo.Collection
}

func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{col: db.DB().Collection("libraries")}
}

// Add marks gameID as owned by userID. Adding twice keeps the first date.
func (r *LibraryRepository) Add(ctx context.Context, userID, gameID int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "gameId": gameID},
		bson.M{"$setOnInsert": bson.M{
			// epoch seconds (int64)
			"addedAt": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Remove reports whether the game was in the library.
func (r *LibraryRepository) Remove(ctx context.Context, userID, gameID int) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "gameId": gameID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *LibraryRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.LibraryDoc, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().
			SetSort(bson.D{{Key: "addedAt", Value: 1}, {Key: "gameId", Value: 1}}).
			SetLimit(int64(limit)).
			SetSkip(int64(offset)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.LibraryDoc{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}

		out = append(out, models.LibraryDoc{
			UserID:  models.AsInt(raw["userId"]),
			GameID:  models.AsInt(raw["gameId"]),
			AddedAt: models.AsInt64(raw["addedAt"]),
		})
	}
	return out, cur.Err()
}

func (r *LibraryRepository) GetAllByUser(ctx context.Context, userID int) ([]models.LibraryDoc, error) {
	return r.GetByUser(ctx, userID, 10000, 0)
}
