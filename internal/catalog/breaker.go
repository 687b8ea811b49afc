package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamerec/internal/logging"
	"gamerec/internal/metrics"
	"gamerec/internal/models"

	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// Breaker trips after FailureThreshold consecutive backend failures and then
// fails fast with ErrUnavailable until Timeout elapses.
type Breaker struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[[]models.Game]
}

func NewBreaker(next Catalog, cfg BreakerConfig) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "catalog"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}

	log := logging.With("catalog")
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		// a cancelled caller says nothing about the backend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]models.Game](settings),
	}
}

// State reports the breaker state (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) FetchAll(ctx context.Context, pages int) ([]models.Game, error) {
	return b.execute(func() ([]models.Game, error) { return b.next.FetchAll(ctx, pages) })
}

func (b *Breaker) FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	return b.execute(func() ([]models.Game, error) { return b.next.FetchByGenres(ctx, genres) })
}

func (b *Breaker) SearchByText(ctx context.Context, query string) ([]models.Game, error) {
	return b.execute(func() ([]models.Game, error) { return b.next.SearchByText(ctx, query) })
}

func (b *Breaker) execute(fn func() ([]models.Game, error)) ([]models.Game, error) {
	games, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return games, err
}
