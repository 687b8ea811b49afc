package catalog

import (
	"context"
	"time"

	"gamerec/internal/metrics"
	"gamerec/internal/models"
)

// Instrumented records latency and failures of every catalog call.
type Instrumented struct {
	next Catalog
}

func NewInstrumented(next Catalog) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) FetchAll(ctx context.Context, pages int) ([]models.Game, error) {
	return observe("fetch_all", func() ([]models.Game, error) { return i.next.FetchAll(ctx, pages) })
}

func (i *Instrumented) FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	return observe("fetch_by_genres", func() ([]models.Game, error) { return i.next.FetchByGenres(ctx, genres) })
}

func (i *Instrumented) SearchByText(ctx context.Context, query string) ([]models.Game, error) {
	return observe("search", func() ([]models.Game, error) { return i.next.SearchByText(ctx, query) })
}

func observe(op string, fn func() ([]models.Game, error)) ([]models.Game, error) {
	start := time.Now()
	games, err := fn()
	metrics.CatalogCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogCallErrors.WithLabelValues(op).Inc()
	}
	return games, err
}
