package service

import (
	"context"
	"sync"
	"time"

	"gamerec/internal/cache"
	"gamerec/internal/catalog"
	"gamerec/internal/genregraph"
	"gamerec/internal/logging"
	"gamerec/internal/metrics"
	"gamerec/internal/models"
	"gamerec/internal/recommend"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultHistoryLimit = 20

type RecommendService struct {
	catalog catalog.Catalog
	library *LibraryService
	games   GameLookup
	store   *ModelStore
	history HistoryStore

	cacheTTLSeconds int
	timeout         time.Duration
	logger          zerolog.Logger
}

type RecommendConfig struct {
	CacheTTLSeconds int
	Timeout         time.Duration
}

// NewRecommendService wires the engine's collaborators. history may be nil.
func NewRecommendService(
	c catalog.Catalog,
	library *LibraryService,
	games GameLookup,
	store *ModelStore,
	history HistoryStore,
	cfg RecommendConfig,
) *RecommendService {
	return &RecommendService{
		catalog:         c,
		library:         library,
		games:           games,
		store:           store,
		history:         history,
		cacheTTLSeconds: cfg.CacheTTLSeconds,
		timeout:         cfg.Timeout,
		logger:          logging.With("recommend"),
	}
}

// ====== Recommendation requests ======

type RecRequest struct {
	UserID  int
	Refresh bool
	// Observer also receives the engine's stage events (e.g. a websocket).
	Observer recommend.Observer
}

type RecResult struct {
	RequestID string        `json:"requestId"`
	Cached    bool          `json:"cached"`
	Items     []models.Game `json:"items"`
}

// RecommendForUser recommends from the user's library. Catalog failures
// degrade the result; only a failing library lookup is an error.
func (s *RecommendService) RecommendForUser(ctx context.Context, req RecRequest) (*RecResult, error) {
	owned, err := s.library.OwnedGames(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req, owned), nil
}

// RecommendForGames recommends for an anonymous caller from a list of owned
// game IDs. Unknown and repeated IDs are ignored.
func (s *RecommendService) RecommendForGames(ctx context.Context, ownedIDs []int, obs recommend.Observer) (*RecResult, error) {
	owned, err := s.games.GetByIDs(ctx, uniqueIDs(ownedIDs))
	if err != nil {
		return nil, err
	}
	return s.run(ctx, RecRequest{Observer: obs}, owned), nil
}

// History lists past runs of a user, newest first.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if s.history == nil {
		return []models.Recommendation{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.history.FindByUser(ctx, userID, limit)
}

func (s *RecommendService) run(ctx context.Context, req RecRequest, owned []models.Game) *RecResult {
	requestID := uuid.NewString()
	logger := s.logger.With().Str("requestId", requestID).Int("userId", req.UserID).Logger()

	ids := make([]int, len(owned))
	for i, g := range owned {
		ids[i] = g.ID
	}
	key := cache.RecommendationKey(req.UserID, ids)

	// 1) Redis cache (skipped on refresh)
	if !req.Refresh {
		var cached []models.Game
		ok, err := cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn().Err(err).Msg("reading recommendation cache")
		}
		if ok {
			metrics.CacheLookups.WithLabelValues("recommendation", "hit").Inc()
			return &RecResult{RequestID: requestID, Cached: true, Items: cached}
		}
		metrics.CacheLookups.WithLabelValues("recommendation", "miss").Inc()
	}

	// 2) genre model; without one the engine serves the simple list
	var model *genregraph.Model
	if len(owned) > 0 {
		b, err := s.store.Get(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("genre model unavailable")
		} else {
			model = b.Model
		}
	}

	// 3) run the engine under the request timeout
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outcomes := &outcomeRecorder{}
	engine := recommend.NewEngine(s.catalog,
		recommend.WithLogger(logger),
		recommend.WithObserver(recommend.Observers{
			recommend.LogObserver{Logger: logger},
			recommend.MetricsObserver{},
			outcomes,
			req.Observer,
		}),
	)
	items := engine.Recommend(runCtx, owned, model)
	metrics.RecommendResultSize.Observe(float64(len(items)))

	// 4) history in Mongo; a failure does not break the response
	if s.history != nil {
		hist := &models.Recommendation{
			RequestID:    requestID,
			UserID:       req.UserID,
			OwnedGameIDs: ids,
			Stages:       outcomes.list(),
			Items:        items,
			CreatedAt:    time.Now(),
		}
		if err := s.history.Insert(ctx, hist); err != nil {
			logger.Error().Err(err).Msg("saving recommendation history")
		}
	}

	// 5) cache the result; a failed stage or a missing model degrades it
	degraded := outcomes.failed() || (len(owned) > 0 && model == nil)
	if !degraded {
		if err := cache.SetJSON(ctx, key, items, s.cacheTTLSeconds); err != nil {
			logger.Warn().Err(err).Msg("caching recommendation")
		}
	}

	logger.Info().Int("owned", len(owned)).Int("items", len(items)).Bool("degraded", degraded).Msg("recommendation served")
	return &RecResult{RequestID: requestID, Items: items}
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// outcomeRecorder collects end events for the history document.
type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []models.StageOutcome
	errored  bool
}

func (r *outcomeRecorder) OnStage(ev recommend.StageEvent) {
	if ev.Kind != recommend.EventEnd {
		return
	}
	out := models.StageOutcome{Stage: string(ev.Stage), Items: ev.Items}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, out)
	if ev.Err != nil {
		r.errored = true
	}
}

func (r *outcomeRecorder) list() []models.StageOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StageOutcome{}, r.outcomes...)
}

func (r *outcomeRecorder) failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errored
}
