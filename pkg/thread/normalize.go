package thread

import "github.com/shakil-official/comment-system/pkg/models"

// Normalize coerces a server- or event-supplied comment into canonical
// shape: reaction sets are never nil, counts are never negative, an empty
// parent id means top-level, and children are normalized recursively.
// Normalizing an already-canonical comment returns an equal value.
func Normalize(c models.Comment) models.Comment {
	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	if c.Dislikes == nil {
		c.Dislikes = []string{}
	}
	if c.FavoritesCount < 0 {
		c.FavoritesCount = 0
	}
	if c.DislikesCount < 0 {
		c.DislikesCount = 0
	}
	if c.Parent != nil && *c.Parent == "" {
		c.Parent = nil
	}
	if len(c.Children) == 0 {
		c.Children = []models.Comment{}
		return c
	}
	children := make([]models.Comment, len(c.Children))
	for i, child := range c.Children {
		children[i] = Normalize(child)
	}
	c.Children = children
	return c
}

// NormalizeAll normalizes a whole tree snapshot.
func NormalizeAll(tree []models.Comment) []models.Comment {
	out := make([]models.Comment, len(tree))
	for i, c := range tree {
		out[i] = Normalize(c)
	}
	return out
}
