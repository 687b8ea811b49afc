// internal/repository/game_repo.go
package repository

import (
	"context"
	"regexp"

	"gamerec/internal/db"
	"gamerec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepository is the Mongo-backed catalog. It satisfies catalog.Catalog.
type GameRepository struct {
	col          *mongo.Collection
	pageSize     int
	defaultPages int
}

func NewGameRepository(pageSize, defaultPages int) *GameRepository {
	return newGameRepository(db.DB().Collection("games"), pageSize, defaultPages)
}

func newGameRepository(col *mongo.Collection, pageSize, defaultPages int) *GameRepository {
	if pageSize <= 0 {
		pageSize = 40
	}
	if defaultPages <= 0 {
		defaultPages = 1
	}
	return &GameRepository{col: col, pageSize: pageSize, defaultPages: defaultPages}
}

// catalog order: best rated first, id as tie-break so pages are stable
var catalogSort = bson.D{{Key: "rating", Value: -1}, {Key: "gameId", Value: 1}}

func (r *GameRepository) limitFor(pages int) int64 {
	if pages <= 0 {
		pages = r.defaultPages
	}
	return int64(pages * r.pageSize)
}

func (r *GameRepository) FetchAll(ctx context.Context, pages int) ([]models.Game, error) {
	opts := options.Find().
		SetSort(catalogSort).
		SetLimit(r.limitFor(pages))
	return r.find(ctx, bson.M{}, opts)
}

// FetchByGenres matches genres stored as plain names or as {name: ...}
// objects, over the same window FetchAll would return by default.
func (r *GameRepository) FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	if len(genres) == 0 {
		return []models.Game{}, nil
	}
	return r.find(ctx, GenreFilter(genres), options.Find().
		SetSort(catalogSort).
		SetLimit(r.limitFor(0)))
}

func (r *GameRepository) SearchByText(ctx context.Context, query string) ([]models.Game, error) {
	if query == "" {
		return []models.Game{}, nil
	}
	filter := bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
	return r.find(ctx, filter, options.Find().
		SetSort(catalogSort).
		SetLimit(int64(r.pageSize)))
}

func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*models.Game, error) {
	var raw bson.M
	err := r.col.FindOne(ctx, bson.M{"gameId": gameID}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g := models.GameFromRaw(raw)
	return &g, nil
}

// GetByIDs returns the games in the order of ids; unknown ids are skipped.
func (r *GameRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Game, error) {
	if len(ids) == 0 {
		return []models.Game{}, nil
	}
	found, err := r.find(ctx, bson.M{"gameId": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.Game, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	out := make([]models.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GameRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Game, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Game{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, models.GameFromRaw(raw))
	}
	return out, cur.Err()
}

// GenreFilter matches documents whose genres intersect genres.
func GenreFilter(genres []string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"genres": bson.M{"$in": genres}},
		bson.M{"genres.name": bson.M{"$in": genres}},
	}}
}
