package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gamerec/internal/catalog"
	"gamerec/internal/genregraph"
	"gamerec/internal/logging"
	"gamerec/internal/metrics"
	"gamerec/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ModelBuild is one genre graph build together with its identity.
type ModelBuild struct {
	ID      string
	BuiltAt time.Time
	Model   *genregraph.Model
}

// DefaultBuildTimeout bounds a single model build.
const DefaultBuildTimeout = time.Minute

// ModelStore owns the shared genre graph. A build is reused until it is
// older than ttl; rebuilds replace it wholesale.
type ModelStore struct {
	catalog catalog.Catalog
	stats   GenreStatsStore
	pages   int
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  zerolog.Logger

	mu      sync.RWMutex
	current *ModelBuild

	group singleflight.Group
}

// NewModelStore builds models from the first pages pages of c. stats may be
// nil, in which case snapshots are not persisted.
func NewModelStore(c catalog.Catalog, stats GenreStatsStore, pages int, ttl time.Duration) *ModelStore {
	return &ModelStore{
		catalog: c,
		stats:   stats,
		pages:   pages,
		ttl:     ttl,
		timeout: DefaultBuildTimeout,
		now:     time.Now,
		logger:  logging.With("model"),
	}
}

// Get returns the current build, rebuilding it when missing or expired.
// When a rebuild fails and an older build exists, the older one is served.
func (s *ModelStore) Get(ctx context.Context) (*ModelBuild, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur != nil && (s.ttl <= 0 || s.now().Sub(cur.BuiltAt) < s.ttl) {
		return cur, nil
	}

	b, err := s.Rebuild(ctx)
	if err != nil {
		if cur != nil {
			s.logger.Warn().Err(err).Str("buildId", cur.ID).Msg("rebuild failed, serving stale model")
			return cur, nil
		}
		return nil, err
	}
	return b, nil
}

// Rebuild fetches the catalog and swaps in a fresh model. Concurrent callers
// share one build, which outlives the caller that started it and is bounded
// by the build timeout instead.
func (s *ModelStore) Rebuild(ctx context.Context) (*ModelBuild, error) {
	v, err, _ := s.group.Do("build", func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.build(buildCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ModelBuild), nil
}

// invalidator is implemented by catalog.Cached.
type invalidator interface {
	Invalidate(ctx context.Context, pages int) error
}

// Refresh rebuilds from a fresh catalog read, bypassing any catalog cache.
func (s *ModelStore) Refresh(ctx context.Context) (*ModelBuild, error) {
	if inv, ok := s.catalog.(invalidator); ok {
		if err := inv.Invalidate(ctx, s.pages); err != nil {
			s.logger.Warn().Err(err).Msg("invalidating cached catalog")
		}
	}
	return s.Rebuild(ctx)
}

func (s *ModelStore) build(ctx context.Context) (*ModelBuild, error) {
	games, err := s.catalog.FetchAll(ctx, s.pages)
	if err != nil {
		return nil, fmt.Errorf("build genre model: %w", err)
	}

	b := &ModelBuild{
		ID:      uuid.NewString(),
		BuiltAt: s.now(),
		Model:   genregraph.Build(games),
	}

	s.mu.Lock()
	s.current = b
	s.mu.Unlock()

	metrics.ModelBuilds.Inc()
	metrics.ModelGenres.Set(float64(len(b.Model.Genres())))
	s.logger.Info().
		Str("buildId", b.ID).
		Int("games", b.Model.Games()).
		Int("genres", len(b.Model.Genres())).
		Int("edges", b.Model.Edges()).
		Msg("genre model built")

	s.persist(ctx, b)
	return b, nil
}

// persist stores the per-genre snapshot; failures are only logged.
func (s *ModelStore) persist(ctx context.Context, b *ModelBuild) {
	if s.stats == nil {
		return
	}
	if err := s.stats.ReplaceAll(ctx, b.ID, StatsDocs(b)); err != nil {
		s.logger.Error().Err(err).Str("buildId", b.ID).Msg("saving genre stats")
	}
}

// StatsDocs flattens a build into one document per genre, in weight order.
func StatsDocs(b *ModelBuild) []models.GenreStatsDoc {
	snap := b.Model.Snapshot()
	updated := b.BuiltAt.Format(time.RFC3339)

	genres := b.Model.Genres()
	docs := make([]models.GenreStatsDoc, 0, len(genres))
	for _, g := range genres {
		docs = append(docs, models.GenreStatsDoc{
			Genre:         g,
			Frequency:     snap.Frequency[g],
			Weight:        snap.Weights[g],
			Complementary: snap.Complementary[g],
			Neighbors:     snap.Adjacency[g],
			BuildID:       b.ID,
			UpdatedAt:     updated,
		})
	}
	return docs
}
