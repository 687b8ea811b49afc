package genregraph

import (
	"math"
	"testing"

	"gamerec/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(id int, genres ...string) models.Game {
	return models.Game{ID: id, Name: "game", Genres: genres}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	m := Build(nil)

	snap := m.Snapshot()
	assert.Empty(t, snap.Weights)
	assert.Empty(t, snap.Adjacency)
	assert.Empty(t, snap.Complementary)

	assert.Equal(t, DefaultWeight, m.Weight("Action"))
	assert.Equal(t, DefaultWeight, m.Weight(""))
	assert.Empty(t, m.Complementary("Action"))
	assert.Empty(t, m.Related("Action", 2))
}

func TestBuild_ActionRPGFixture(t *testing.T) {
	m := Build([]models.Game{
		game(1, "Action"),
		game(2, "Action", "RPG"),
		game(3, "RPG"),
	})

	assert.Equal(t, []string{"RPG"}, m.Neighbors("Action"))
	assert.Equal(t, []string{"Action"}, m.Neighbors("RPG"))

	// equal frequency: first-seen genre takes rank 0
	assert.InDelta(t, math.Log(3)*6.0, m.Weight("Action"), 1e-9)
	assert.InDelta(t, math.Log(3)*5.8, m.Weight("RPG"), 1e-9)

	assert.Equal(t, []string{"RPG"}, m.Complementary("Action"))
	assert.Equal(t, []string{"Action"}, m.Complementary("RPG"))
	assert.Equal(t, []string{"Action", "RPG"}, m.Genres())
	assert.Equal(t, 1, m.Edges())
	assert.Equal(t, 3, m.Games())
}

func TestBuild_WeightOrderFollowsFrequency(t *testing.T) {
	m := Build([]models.Game{
		game(1, "Indie"),
		game(2, "Puzzle", "Indie"),
		game(3, "Indie", "Strategy"),
		game(4, "Strategy"),
	})

	require.Equal(t, []string{"Indie", "Strategy", "Puzzle"}, m.Genres())
	assert.InDelta(t, math.Log(4)*6.0, m.Weight("Indie"), 1e-9)
	assert.InDelta(t, math.Log(3)*5.8, m.Weight("Strategy"), 1e-9)
	assert.InDelta(t, math.Log(2)*5.6, m.Weight("Puzzle"), 1e-9)
	assert.Equal(t, 3, m.Frequency("Indie"))
}

func TestBuild_EveryGenreIsKeyed(t *testing.T) {
	m := Build([]models.Game{
		game(1, "Solo"),
		game(2),
		game(3, "A", "B"),
	})

	snap := m.Snapshot()
	for _, g := range []string{"Solo", "A", "B"} {
		assert.Contains(t, snap.Weights, g)
		assert.Contains(t, snap.Adjacency, g)
		assert.Contains(t, snap.Complementary, g)
	}
	assert.Empty(t, snap.Adjacency["Solo"])
	assert.Empty(t, snap.Complementary["Solo"])
}

func TestBuild_ComplementaryPicksLeastCooccurring(t *testing.T) {
	m := Build([]models.Game{
		game(1, "Action", "Adventure"),
		game(2, "Action", "Adventure"),
		game(3, "Action", "Adventure"),
		game(4, "Action", "Shooter"),
		game(5, "Action", "Shooter"),
		game(6, "Action", "Puzzle"),
		game(7, "Action", "Racing"),
		game(8, "Action", "Sports"),
	})

	// ascending count, first-seen order among ties
	assert.Equal(t, []string{"Puzzle", "Racing", "Sports"}, m.Complementary("Action"))
	assert.Equal(t, []string{"Action"}, m.Complementary("Adventure"))
}

func TestBuild_DuplicateGenreInOneGameCountsPairOnce(t *testing.T) {
	m := Build([]models.Game{
		game(1, "A", "B", "A"),
		game(2, "A", "C"),
		game(3, "A", "C"),
	})

	// A-B seen in one game, A-C in two
	assert.Equal(t, []string{"B", "C"}, m.Complementary("A"))
	assert.Equal(t, 4, m.Frequency("A"))
}

func TestBuild_Idempotent(t *testing.T) {
	games := []models.Game{
		game(1, "Action", "RPG", "Indie"),
		game(2, "RPG", "Strategy"),
		game(3, "Indie", "Puzzle"),
		game(4, "Action"),
	}

	assert.Equal(t, Build(games).Snapshot(), Build(games).Snapshot())
}

func TestBuild_DoesNotKeepInput(t *testing.T) {
	games := []models.Game{game(1, "Action", "RPG")}
	m := Build(games)

	games[0].Genres[0] = "Changed"

	assert.Equal(t, []string{"Action", "RPG"}, m.Genres())
}

func TestRelated(t *testing.T) {
	// chain: A - B - C - D, plus E isolated
	m := Build([]models.Game{
		game(1, "A", "B"),
		game(2, "B", "C"),
		game(3, "C", "D"),
		game(4, "E"),
	})

	tests := []struct {
		name  string
		genre string
		depth int
		want  []string
	}{
		{"depth zero", "A", 0, []string{}},
		{"negative depth", "A", -1, []string{}},
		{"one hop", "A", 1, []string{"B"}},
		{"two hops", "A", 2, []string{"B", "C"}},
		{"whole chain", "A", 10, []string{"B", "C", "D"}},
		{"middle node", "B", 1, []string{"A", "C"}},
		{"isolated", "E", 2, []string{}},
		{"unknown", "Z", 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Related(tt.genre, tt.depth))
		})
	}
}

func TestRelated_DeeperIsSuperset(t *testing.T) {
	m := Build([]models.Game{
		game(1, "A", "B", "C"),
		game(2, "C", "D"),
		game(3, "D", "E"),
		game(4, "B", "F"),
	})

	one := m.Related("A", 1)
	two := m.Related("A", DefaultDepth)
	assert.Subset(t, two, one)
	assert.NotContains(t, two, "A")
}

func TestNilModelIsNeutral(t *testing.T) {
	var m *Model
	assert.Equal(t, DefaultWeight, m.Weight("Action"))
	assert.Empty(t, m.Complementary("Action"))
	assert.Empty(t, m.Related("Action", 2))
	assert.Empty(t, m.Genres())
}
