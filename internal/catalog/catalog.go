// Package catalog defines the game catalog the recommender reads from and
// the decorators that wrap a concrete backend (Mongo or a remote catalog
// node) with caching, a circuit breaker and metrics.
package catalog

import (
	"context"
	"errors"

	"gamerec/internal/models"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("catalog unavailable")

// Catalog is the read surface of the game catalog.
type Catalog interface {
	// FetchAll returns up to pages pages of the catalog; pages <= 0 means the
	// backend's default page count.
	FetchAll(ctx context.Context, pages int) ([]models.Game, error)

	// FetchByGenres returns the games whose genre list intersects genres.
	FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error)

	// SearchByText is a free-text name search.
	SearchByText(ctx context.Context, query string) ([]models.Game, error)
}

// FilterByGenres keeps the games carrying at least one of genres, in input
// order. Used by backends that can only fetch everything.
func FilterByGenres(games []models.Game, genres []string) []models.Game {
	set := GenreSet(genres)
	out := make([]models.Game, 0, len(games))
	if len(set) == 0 {
		return out
	}
	for _, g := range games {
		if g.HasAnyGenre(set) {
			out = append(out, g)
		}
	}
	return out
}

// GenreSet builds a lookup set, skipping empty names.
func GenreSet(genres []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		if g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}
