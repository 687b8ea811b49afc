package service

import (
	"context"
	"errors"
	"fmt"

	"gamerec/internal/genregraph"
	"gamerec/internal/models"
)

var ErrUnknownGenre = errors.New("unknown genre")

const MaxRelatedDepth = 5

// GenreAdminService exposes the current genre graph to operators.
type GenreAdminService struct {
	store *ModelStore
}

func NewGenreAdminService(store *ModelStore) *GenreAdminService {
	return &GenreAdminService{store: store}
}

// Summary describes the current build; limit <= 0 lists every genre.
func (s *GenreAdminService) Summary(ctx context.Context, limit int) (*models.GenreSummary, error) {
	b, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(b, limit), nil
}

// Related lists the genres within depth hops of genre.
func (s *GenreAdminService) Related(ctx context.Context, genre string, depth int) (*models.RelatedGenres, error) {
	if depth <= 0 {
		depth = genregraph.DefaultDepth
	}
	if depth > MaxRelatedDepth {
		depth = MaxRelatedDepth
	}

	b, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if b.Model.Frequency(genre) == 0 {
		return nil, fmt.Errorf("%q: %w", genre, ErrUnknownGenre)
	}

	return &models.RelatedGenres{
		Genre:   genre,
		Depth:   depth,
		Related: b.Model.Related(genre, depth),
	}, nil
}

// Rebuild forces a new build from a fresh catalog read and returns its
// summary.
func (s *GenreAdminService) Rebuild(ctx context.Context) (*models.GenreSummary, error) {
	b, err := s.store.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(b, 0), nil
}

func summarize(b *ModelBuild, limit int) *models.GenreSummary {
	m := b.Model
	genres := m.Genres()
	if limit > 0 && len(genres) > limit {
		genres = genres[:limit]
	}

	items := make([]models.GenreSummaryItem, 0, len(genres))
	for _, g := range genres {
		items = append(items, models.GenreSummaryItem{
			Genre:         g,
			Frequency:     m.Frequency(g),
			Weight:        m.Weight(g),
			Degree:        len(m.Neighbors(g)),
			Complementary: m.Complementary(g),
		})
	}

	return &models.GenreSummary{
		BuildID: b.ID,
		BuiltAt: b.BuiltAt,
		Games:   m.Games(),
		Genres:  len(m.Genres()),
		Edges:   m.Edges(),
		Items:   items,
	}
}
