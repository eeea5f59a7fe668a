package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/shakil-official/comment-system/pkg/models"
)

type CommentsRepository interface {
	ForPost(postID string, limit, offset int) ([]models.Comment, int, error)
	ByID(id string) (models.Comment, error)
	Create(authorID string, req models.CreateCommentRequest) (models.Comment, error)
	Update(id, authorID, message string) (models.Comment, error)
	Delete(id, authorID string) (bool, error)
	ToggleReaction(userID, commentID, kind string) (models.Comment, error)
}

type commentsRepository struct {
	db *sql.DB
}

func NewCommentsRepository(db *sql.DB) CommentsRepository {
	return &commentsRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.message, c.post_id, c.parent_id, c.created_at, c.updated_at,
	       u.id, u.name, u.email,
	       COALESCE(array_agg(r.user_id::text) FILTER (WHERE r.kind = 'like'), '{}'),
	       COALESCE(array_agg(r.user_id::text) FILTER (WHERE r.kind = 'dislike'), '{}')
	FROM comments c
	JOIN users u ON u.id = c.author_id
	LEFT JOIN comment_reactions r ON r.comment_id = c.id
`

func scanComment(row interface {
	Scan(dest ...interface{}) error
}) (models.Comment, error) {
	var cm models.Comment
	var a models.Author
	var parent sql.NullString
	var favorites, dislikes pq.StringArray

	err := row.Scan(&cm.ID, &cm.Message, &cm.Post, &parent, &cm.Date, &cm.UpdatedAt,
		&a.ID, &a.Name, &a.Email, &favorites, &dislikes)
	if err != nil {
		return cm, err
	}

	cm.User = &a
	if parent.Valid {
		p := parent.String
		cm.Parent = &p
	}
	cm.Favorites = favorites
	cm.Dislikes = dislikes
	cm.FavoritesCount = models.Count(len(favorites))
	cm.DislikesCount = models.Count(len(dislikes))
	return cm, nil
}

// ForPost returns one newest-first page of a post's comments, flat. The
// caller nests them; pagination applies to the flat list, not the tree.
func (r *commentsRepository) ForPost(postID string, limit, offset int) ([]models.Comment, int, error) {
	var total int
	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(commentSelect+`
		WHERE c.post_id = $1
		GROUP BY c.id, u.id
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	return comments, total, rows.Err()
}

func (r *commentsRepository) ByID(id string) (models.Comment, error) {
	row := r.db.QueryRow(commentSelect+`
		WHERE c.id = $1
		GROUP BY c.id, u.id
	`, id)
	return scanComment(row)
}

func (r *commentsRepository) Create(authorID string, req models.CreateCommentRequest) (models.Comment, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO comments (message, post_id, parent_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, req.Message, req.PostID, req.ParentID, authorID).Scan(&id)
	if err != nil {
		return models.Comment{}, err
	}
	return r.ByID(id)
}

func (r *commentsRepository) Update(id, authorID, message string) (models.Comment, error) {
	res, err := r.db.Exec(`
		UPDATE comments SET message = $1, updated_at = now()
		WHERE id = $2 AND author_id = $3
	`, message, id, authorID)
	if err != nil {
		return models.Comment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Comment{}, sql.ErrNoRows
	}
	return r.ByID(id)
}

// Delete removes a comment and, through the FK cascade, its whole subtree.
func (r *commentsRepository) Delete(id, authorID string) (bool, error) {
	res, err := r.db.Exec(
		`DELETE FROM comments WHERE id = $1 AND author_id = $2`, id, authorID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ToggleReaction flips a user's reaction on a comment. Same kind again
// removes it; the opposite kind replaces it. The (user_id, comment_id)
// primary key guarantees a user never holds both kinds at once.
func (r *commentsRepository) ToggleReaction(userID, commentID, kind string) (models.Comment, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return models.Comment{}, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(
		`SELECT kind FROM comment_reactions WHERE user_id = $1 AND comment_id = $2 FOR UPDATE`,
		userID, commentID,
	).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(
			`INSERT INTO comment_reactions (user_id, comment_id, kind) VALUES ($1, $2, $3)`,
			userID, commentID, kind,
		)
	case err != nil:
	case existing == kind:
		_, err = tx.Exec(
			`DELETE FROM comment_reactions WHERE user_id = $1 AND comment_id = $2`,
			userID, commentID,
		)
	default:
		_, err = tx.Exec(
			`UPDATE comment_reactions SET kind = $1, created_at = now()
			 WHERE user_id = $2 AND comment_id = $3`,
			kind, userID, commentID,
		)
	}
	if err != nil {
		return models.Comment{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Comment{}, err
	}
	return r.ByID(commentID)
}
