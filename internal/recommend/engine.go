// Package recommend turns a user's owned games into at most MaxResults
// suggestions from the catalog.
//
// The engine escalates through three strategies:
//
//   - Advanced: genres ranked by the user's weighted preference, each one
//     expanded with its complementary genres and allowed a bounded number
//     of picks.
//   - Broaden: when Advanced leaves slots open, two independent passes over
//     the raw owned genres and over the genres related to them in the genre
//     graph.
//   - Simple: the first catalog page, unfiltered. Used when there is nothing
//     to personalize on, or when every personalized stage failed.
//
// Recommend never returns an error: catalog failures are logged, the stage
// that hit them yields nothing, and the result degrades to fewer items.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gamerec/internal/catalog"
	"gamerec/internal/genregraph"
	"gamerec/internal/logging"
	"gamerec/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxResults bounds every recommendation list.
	MaxResults = 6

	minGenreLimit = 1
	maxGenreLimit = 5
)

// Engine is created per request; it holds no state besides its inputs.
type Engine struct {
	catalog  catalog.Catalog
	observer Observer
	logger   zerolog.Logger
}

type Option func(*Engine)

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

//nolint:gocritic // zerolog loggers are passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(c catalog.Catalog, opts ...Option) *Engine {
	logger := logging.With("recommend")
	e := &Engine{
		catalog:  c,
		observer: LogObserver{Logger: logger},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend returns up to MaxResults games. With owned games and a model the
// result never contains an owned game; the Simple path does not filter
// ownership.
func (e *Engine) Recommend(ctx context.Context, owned []models.Game, model *genregraph.Model) (out []models.Game) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("recommendation pipeline panicked, using simple fallback")
			out = e.simple(ctx)
		}
	}()

	if len(owned) == 0 || model == nil {
		return e.simple(ctx)
	}

	ownedIDs := make(map[int]struct{}, len(owned))
	for _, g := range owned {
		ownedIDs[g.ID] = struct{}{}
	}

	e.emit(StageEvent{Stage: StageAdvanced, Kind: EventStart})
	results, advErr := e.advanced(ctx, owned, ownedIDs, model)
	e.emit(StageEvent{Stage: StageAdvanced, Kind: EventEnd, Items: len(results), Err: advErr})

	failed := advErr != nil
	if len(results) < MaxResults {
		e.emit(StageEvent{Stage: StageBroaden, Kind: EventStart})
		extra, broadenErr := e.broaden(ctx, owned, ownedIDs, model)
		e.emit(StageEvent{Stage: StageBroaden, Kind: EventEnd, Items: len(extra), Err: broadenErr})

		results = append(results, extra...)
		failed = failed || broadenErr != nil
	}

	final := Dedupe(results, MaxResults)
	if len(final) == 0 && failed {
		return e.simple(ctx)
	}
	return final
}

// ====== Advanced ======

type preference struct {
	genre string
	score float64
}

// preferences sums the model weight of every owned genre occurrence and
// orders genres by that total, first-seen first on ties.
func preferences(owned []models.Game, model *genregraph.Model) []preference {
	idx := make(map[string]int)
	var prefs []preference

	for _, g := range owned {
		for _, name := range g.Genres {
			i, ok := idx[name]
			if !ok {
				i = len(prefs)
				idx[name] = i
				prefs = append(prefs, preference{genre: name})
			}
			prefs[i].score += model.Weight(name)
		}
	}

	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].score > prefs[j].score })
	return prefs
}

// genreLimit is how many games one genre may contribute.
func genreLimit(score float64) int {
	limit := int(math.Ceil(score))
	if limit < minGenreLimit {
		return minGenreLimit
	}
	if limit > maxGenreLimit {
		return maxGenreLimit
	}
	return limit
}

// advanced walks genres sequentially: each genre may only pick games no
// earlier genre claimed. On a catalog failure the stage yields nothing.
func (e *Engine) advanced(
	ctx context.Context,
	owned []models.Game,
	ownedIDs map[int]struct{},
	model *genregraph.Model,
) ([]models.Game, error) {
	selected := make(map[int]struct{})
	var out []models.Game

	for _, p := range preferences(owned, model) {
		genres := append([]string{p.genre}, model.Complementary(p.genre)...)

		candidates, err := e.catalog.FetchByGenres(ctx, genres)
		if err != nil {
			return nil, fmt.Errorf("advanced: fetch genre %q: %w", p.genre, err)
		}

		limit := genreLimit(p.score)
		taken := 0
		for _, g := range candidates {
			if taken >= limit {
				break
			}
			if _, ok := ownedIDs[g.ID]; ok {
				continue
			}
			if _, ok := selected[g.ID]; ok {
				continue
			}
			selected[g.ID] = struct{}{}
			out = append(out, g)
			taken++
		}

		e.logger.Debug().
			Str("genre", p.genre).
			Float64("preference", p.score).
			Int("limit", limit).
			Int("candidates", len(candidates)).
			Int("taken", taken).
			Msg("advanced genre processed")
	}
	return out, nil
}

// ====== Broaden ======

// broaden runs the raw-genre pass and the related-genre pass concurrently.
// Results are concatenated raw first, related second, regardless of which
// finished first. A failing pass contributes nothing.
func (e *Engine) broaden(
	ctx context.Context,
	owned []models.Game,
	ownedIDs map[int]struct{},
	model *genregraph.Model,
) ([]models.Game, error) {
	ownedGenres := ownedGenreList(owned)
	related := relatedGenres(ownedGenres, model)

	var (
		raw, rel       []models.Game
		rawErr, relErr error
		g              errgroup.Group
	)
	g.Go(func() error {
		raw, rawErr = e.genrePass(ctx, ownedGenres, ownedIDs)
		return nil
	})
	g.Go(func() error {
		rel, relErr = e.genrePass(ctx, related, ownedIDs)
		return nil
	})
	_ = g.Wait()

	if rawErr != nil {
		rawErr = fmt.Errorf("broaden: genre pass: %w", rawErr)
	}
	if relErr != nil {
		relErr = fmt.Errorf("broaden: related pass: %w", relErr)
	}

	out := make([]models.Game, 0, len(raw)+len(rel))
	out = append(out, raw...)
	out = append(out, rel...)
	return out, errors.Join(rawErr, relErr)
}

// genrePass takes the first MaxResults unowned catalog games matching any
// of genres.
func (e *Engine) genrePass(ctx context.Context, genres []string, ownedIDs map[int]struct{}) ([]models.Game, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	candidates, err := e.catalog.FetchByGenres(ctx, genres)
	if err != nil {
		return nil, err
	}

	out := make([]models.Game, 0, MaxResults)
	for _, g := range candidates {
		if len(out) >= MaxResults {
			break
		}
		if _, ok := ownedIDs[g.ID]; ok {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func ownedGenreList(owned []models.Game) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range owned {
		for _, name := range g.Genres {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func relatedGenres(genres []string, model *genregraph.Model) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, genre := range genres {
		for _, rel := range model.Related(genre, genregraph.DefaultDepth) {
			if _, ok := seen[rel]; ok {
				continue
			}
			seen[rel] = struct{}{}
			out = append(out, rel)
		}
	}
	return out
}

// ====== Simple ======

// simple returns the first MaxResults catalog entries unfiltered, or an
// empty list when even that fails.
func (e *Engine) simple(ctx context.Context) []models.Game {
	e.emit(StageEvent{Stage: StageSimple, Kind: EventStart})

	games, err := e.catalog.FetchAll(ctx, 0)
	if err != nil {
		err = fmt.Errorf("simple: fetch all: %w", err)
		e.emit(StageEvent{Stage: StageSimple, Kind: EventEnd, Err: err})
		return []models.Game{}
	}

	n := len(games)
	if n > MaxResults {
		n = MaxResults
	}
	out := append([]models.Game{}, games[:n]...)
	e.emit(StageEvent{Stage: StageSimple, Kind: EventEnd, Items: len(out)})
	return out
}

// Dedupe keeps the first occurrence of every game ID and truncates to limit.
func Dedupe(games []models.Game, limit int) []models.Game {
	seen := make(map[int]struct{}, len(games))
	out := make([]models.Game, 0, limit)
	for _, g := range games {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	return out
}

func (e *Engine) emit(ev StageEvent) {
	e.observer.OnStage(ev)
}
