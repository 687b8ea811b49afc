package catalog

import (
	"context"
	"strconv"

	"gamerec/internal/cache"
	"gamerec/internal/logging"
	"gamerec/internal/metrics"
	"gamerec/internal/models"
)

// Cached is a Redis read-through layer for the bulk catalog calls. Text
// search is passed through untouched. Cache failures never fail a call.
type Cached struct {
	next       Catalog
	ttlSeconds int
}

func NewCached(next Catalog, ttlSeconds int) *Cached {
	return &Cached{next: next, ttlSeconds: ttlSeconds}
}

func (c *Cached) FetchAll(ctx context.Context, pages int) ([]models.Game, error) {
	key := cache.CatalogKey("all", strconv.Itoa(pages))
	return c.readThrough(ctx, "all", key, func() ([]models.Game, error) {
		return c.next.FetchAll(ctx, pages)
	})
}

func (c *Cached) FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	key := cache.CatalogKey("genres", genres...)
	return c.readThrough(ctx, "genres", key, func() ([]models.Game, error) {
		return c.next.FetchByGenres(ctx, genres)
	})
}

func (c *Cached) SearchByText(ctx context.Context, query string) ([]models.Game, error) {
	return c.next.SearchByText(ctx, query)
}

func (c *Cached) readThrough(
	ctx context.Context,
	kind, key string,
	load func() ([]models.Game, error),
) ([]models.Game, error) {
	log := logging.With("catalog")

	var cached []models.Game
	if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
		metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}
	metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()

	games, err := load()
	if err != nil {
		return nil, err
	}

	if c.ttlSeconds > 0 {
		if err := cache.SetJSON(ctx, key, games, c.ttlSeconds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
		}
	}
	return games, nil
}

// Invalidate drops the cached FetchAll result for pages so the next call
// reaches the backend.
func (c *Cached) Invalidate(ctx context.Context, pages int) error {
	if !cache.Enabled() {
		return nil
	}
	return cache.Delete(ctx, cache.CatalogKey("all", strconv.Itoa(pages)))
}
