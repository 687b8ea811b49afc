package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHelpersWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest []int
	ok, err := GetJSON(ctx, "rec:user:1", &dest)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, SetJSON(ctx, "rec:user:1", []int{1, 2}, 60))
	assert.NoError(t, Delete(ctx, "rec:user:1"))
	assert.False(t, Enabled())
}

func TestRecommendationKey(t *testing.T) {
	a := RecommendationKey(7, []int{3, 1, 2})
	b := RecommendationKey(7, []int{1, 2, 3})
	c := RecommendationKey(7, []int{1, 2})
	d := RecommendationKey(8, []int{1, 2, 3})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Contains(t, a, "rec:user:7:lib:")
}

func TestCatalogKeyIgnoresGenreOrder(t *testing.T) {
	assert.Equal(t,
		CatalogKey("genres", "RPG", "Action"),
		CatalogKey("genres", "Action", "RPG"),
	)
	assert.NotEqual(t,
		CatalogKey("genres", "Action"),
		CatalogKey("all", "Action"),
	)
}
