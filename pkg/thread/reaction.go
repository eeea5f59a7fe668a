package thread

import "github.com/shakil-official/comment-system/pkg/models"

// Kind selects which reaction set a toggle targets.
type Kind string

const (
	Like    Kind = "like"
	Dislike Kind = "dislike"
)

func (k Kind) Valid() bool { return k == Like || k == Dislike }

// Toggle flips userID's reaction of the given kind on a single comment.
// A user holds at most one of like/dislike at a time: toggling one on
// removes the other in the same call. Counts move by one and never go
// below zero; they are deliberately not recomputed from the sets, since
// the server owns the aggregate numbers.
//
// This is the optimistic local projection. The authoritative
// comment:reaction event overwrites whatever this produced.
func Toggle(c models.Comment, userID string, kind Kind) models.Comment {
	switch kind {
	case Like:
		if c.FavoritedBy(userID) {
			c.Favorites = removeID(c.Favorites, userID)
			c.FavoritesCount = dec(c.FavoritesCount)
			return c
		}
		c.Favorites = appendID(c.Favorites, userID)
		c.FavoritesCount++
		if c.DislikedBy(userID) {
			c.Dislikes = removeID(c.Dislikes, userID)
			c.DislikesCount = dec(c.DislikesCount)
		}
	case Dislike:
		if c.DislikedBy(userID) {
			c.Dislikes = removeID(c.Dislikes, userID)
			c.DislikesCount = dec(c.DislikesCount)
			return c
		}
		c.Dislikes = appendID(c.Dislikes, userID)
		c.DislikesCount++
		if c.FavoritedBy(userID) {
			c.Favorites = removeID(c.Favorites, userID)
			c.FavoritesCount = dec(c.FavoritesCount)
		}
	}
	return c
}

func dec(n models.Count) models.Count {
	if n <= 0 {
		return 0
	}
	return n - 1
}

func appendID(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
