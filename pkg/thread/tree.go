// Package thread holds the pure operations over a post's comment tree.
// Every function treats its input as immutable and returns a rebuilt tree;
// callers own concurrency.
package thread

import "github.com/shakil-official/comment-system/pkg/models"

// Insert places c into the tree. Top-level comments (nil parent) are
// prepended so the newest root comes first; replies are appended to their
// parent's children, preserving reply order. A comment whose parent is not
// in the tree is dropped and the input returned as-is.
func Insert(tree []models.Comment, c models.Comment) []models.Comment {
	if c.Parent == nil || *c.Parent == "" {
		out := make([]models.Comment, 0, len(tree)+1)
		out = append(out, c)
		return append(out, tree...)
	}
	if !Contains(tree, *c.Parent) {
		return tree
	}
	return insertUnder(tree, *c.Parent, c)
}

func insertUnder(tree []models.Comment, parentID string, c models.Comment) []models.Comment {
	out := make([]models.Comment, len(tree))
	for i, node := range tree {
		if node.ID == parentID {
			children := make([]models.Comment, 0, len(node.Children)+1)
			children = append(children, node.Children...)
			node.Children = append(children, c)
		} else if len(node.Children) > 0 {
			node.Children = insertUnder(node.Children, parentID, c)
		}
		out[i] = node
	}
	return out
}

// UpdateByID replaces the node with the given id by fn(node). All other
// nodes pass through untouched; an unknown id leaves the tree unchanged.
func UpdateByID(tree []models.Comment, id string, fn func(models.Comment) models.Comment) []models.Comment {
	out := make([]models.Comment, len(tree))
	for i, node := range tree {
		if node.ID == id {
			out[i] = fn(node)
			continue
		}
		if len(node.Children) > 0 {
			node.Children = UpdateByID(node.Children, id, fn)
		}
		out[i] = node
	}
	return out
}

// RemoveByID filters the node with the given id out of every level. Because
// a pruned node's children are never revisited, the whole subtree under id
// disappears in one pass.
func RemoveByID(tree []models.Comment, id string) []models.Comment {
	out := make([]models.Comment, 0, len(tree))
	for _, node := range tree {
		if node.ID == id {
			continue
		}
		if len(node.Children) > 0 {
			node.Children = RemoveByID(node.Children, id)
		}
		out = append(out, node)
	}
	return out
}

// FindByID returns a copy of the node with the given id.
func FindByID(tree []models.Comment, id string) (models.Comment, bool) {
	for _, node := range tree {
		if node.ID == id {
			return node, true
		}
		if c, ok := FindByID(node.Children, id); ok {
			return c, true
		}
	}
	return models.Comment{}, false
}

// Contains reports whether any node in the tree has the given id.
func Contains(tree []models.Comment, id string) bool {
	_, ok := FindByID(tree, id)
	return ok
}

// Size counts every node in the tree.
func Size(tree []models.Comment) int {
	n := 0
	for _, node := range tree {
		n += 1 + Size(node.Children)
	}
	return n
}
