package thread

import "github.com/shakil-official/comment-system/pkg/models"

// Build assembles a flat, newest-first page of comments into the nested
// tree served to clients: newest roots first, replies under each parent
// oldest first. A comment whose parent falls outside the page surfaces at
// the root rather than being dropped, so a partial page still renders.
func Build(flat []models.Comment) []models.Comment {
	present := make(map[string]bool, len(flat))
	for _, c := range flat {
		present[c.ID] = true
	}

	childrenOf := make(map[string][]models.Comment)
	for i := len(flat) - 1; i >= 0; i-- { // oldest first → reply order
		c := flat[i]
		if c.Parent != nil && *c.Parent != c.ID && present[*c.Parent] {
			childrenOf[*c.Parent] = append(childrenOf[*c.Parent], c)
		}
	}

	var assemble func(c models.Comment) models.Comment
	assemble = func(c models.Comment) models.Comment {
		kids := childrenOf[c.ID]
		children := make([]models.Comment, len(kids))
		for i, k := range kids {
			children[i] = assemble(k)
		}
		c.Children = children
		return c
	}

	roots := make([]models.Comment, 0, len(flat))
	for _, c := range flat {
		if c.Parent == nil || !present[*c.Parent] || *c.Parent == c.ID {
			roots = append(roots, assemble(c))
		}
	}
	return roots
}
