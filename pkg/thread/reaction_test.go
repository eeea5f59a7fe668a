package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakil-official/comment-system/pkg/models"
)

func TestToggleLikeOnEmptyComment(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1"})

	got := Toggle(c, "u1", Like)

	assert.Equal(t, []string{"u1"}, got.Favorites)
	assert.Equal(t, models.Count(1), got.FavoritesCount)
	assert.Empty(t, got.Dislikes)
	assert.Equal(t, models.Count(0), got.DislikesCount)
}

func TestToggleSwitchesSides(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1"})
	c = Toggle(c, "u1", Like)

	got := Toggle(c, "u1", Dislike)

	assert.Empty(t, got.Favorites)
	assert.Equal(t, models.Count(0), got.FavoritesCount)
	assert.Equal(t, []string{"u1"}, got.Dislikes)
	assert.Equal(t, models.Count(1), got.DislikesCount)
}

func TestToggleOff(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1"})
	c = Toggle(c, "u1", Like)

	got := Toggle(c, "u1", Like)

	assert.Empty(t, got.Favorites)
	assert.Equal(t, models.Count(0), got.FavoritesCount)
}

func TestToggleMutualExclusionUnderAnySequence(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1"})
	seq := []Kind{Like, Like, Dislike, Dislike, Like, Dislike, Like, Like, Dislike}

	for _, k := range seq {
		c = Toggle(c, "u1", k)
		inFav := c.FavoritedBy("u1")
		inDis := c.DislikedBy("u1")
		assert.False(t, inFav && inDis, "user may hold at most one reaction")
		assert.GreaterOrEqual(t, int(c.FavoritesCount), 0)
		assert.GreaterOrEqual(t, int(c.DislikesCount), 0)
	}
}

func TestToggleCountsFloorAtZero(t *testing.T) {
	// Server said zero but the set still lists the user; toggling off must
	// not push the counter negative.
	c := Normalize(models.Comment{ID: "c1", Favorites: []string{"u1"}})

	got := Toggle(c, "u1", Like)

	assert.Equal(t, models.Count(0), got.FavoritesCount)
}

func TestToggleLeavesOtherUsersAlone(t *testing.T) {
	c := Normalize(models.Comment{
		ID:             "c1",
		Favorites:      []string{"u2"},
		FavoritesCount: 1,
	})

	got := Toggle(c, "u1", Like)

	assert.ElementsMatch(t, []string{"u1", "u2"}, got.Favorites)
	assert.Equal(t, models.Count(2), got.FavoritesCount)
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1", Favorites: []string{"u2"}, FavoritesCount: 1})

	_ = Toggle(c, "u1", Like)

	require.Equal(t, []string{"u2"}, c.Favorites)
	require.Equal(t, models.Count(1), c.FavoritesCount)
}

func TestToggleUnknownKindIsNoop(t *testing.T) {
	c := Normalize(models.Comment{ID: "c1"})
	assert.Equal(t, c, Toggle(c, "u1", Kind("shrug")))
}
