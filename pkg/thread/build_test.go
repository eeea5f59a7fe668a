package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakil-official/comment-system/pkg/models"
)

func flatComment(id string, parent *string) models.Comment {
	return models.Comment{ID: id, Parent: parent, Post: "p1"}
}

func TestBuildNestsRepliesUnderParents(t *testing.T) {
	p := "root"
	// newest-first page: reply2, reply1, root
	flat := []models.Comment{
		flatComment("reply2", &p),
		flatComment("reply1", &p),
		flatComment("root", nil),
	}

	tree := Build(flat)

	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].ID)
	require.Len(t, tree[0].Children, 2)
	// replies come back oldest first
	assert.Equal(t, "reply1", tree[0].Children[0].ID)
	assert.Equal(t, "reply2", tree[0].Children[1].ID)
}

func TestBuildKeepsNewestRootsFirst(t *testing.T) {
	flat := []models.Comment{
		flatComment("c3", nil),
		flatComment("c2", nil),
		flatComment("c1", nil),
	}

	tree := Build(flat)

	require.Len(t, tree, 3)
	assert.Equal(t, "c3", tree[0].ID)
	assert.Equal(t, "c1", tree[2].ID)
}

func TestBuildSurfacesOrphansAtRoot(t *testing.T) {
	missing := "not-in-page"
	flat := []models.Comment{
		flatComment("orphan", &missing),
		flatComment("root", nil),
	}

	tree := Build(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, "orphan", tree[0].ID)
	assert.Equal(t, "root", tree[1].ID)
}

func TestBuildSelfParentTreatedAsRoot(t *testing.T) {
	self := "loop"
	tree := Build([]models.Comment{flatComment("loop", &self)})

	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Children)
}

func TestBuildDeepChain(t *testing.T) {
	a, b := "a", "b"
	flat := []models.Comment{
		flatComment("c", &b),
		flatComment("b", &a),
		flatComment("a", nil),
	}

	tree := Build(flat)

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "c", tree[0].Children[0].Children[0].ID)
}
