package repository

import (
	"database/sql"

	"github.com/shakil-official/comment-system/pkg/models"
)

type PostsRepository interface {
	List(limit, offset int) ([]models.Post, int, error)
	ByID(id string) (models.Post, error)
	Create(authorID string, req models.CreatePostRequest) (models.Post, error)
}

type postsRepository struct {
	db *sql.DB
}

func NewPostsRepository(db *sql.DB) PostsRepository {
	return &postsRepository{db: db}
}

func (r *postsRepository) List(limit, offset int) ([]models.Post, int, error) {
	var total int
	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM posts WHERE status = $1`, models.PostActive,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT p.id, p.title, p.description, p.status, p.created_at,
		       u.id, u.name, u.email
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.status = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, models.PostActive, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		var a models.Author
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.Date,
			&a.ID, &a.Name, &a.Email); err != nil {
			return nil, 0, err
		}
		p.User = &a
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *postsRepository) ByID(id string) (models.Post, error) {
	var p models.Post
	var a models.Author
	err := r.db.QueryRow(`
		SELECT p.id, p.title, p.description, p.status, p.created_at,
		       u.id, u.name, u.email
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.Date,
		&a.ID, &a.Name, &a.Email)
	if err != nil {
		return p, err
	}
	p.User = &a
	return p, nil
}

func (r *postsRepository) Create(authorID string, req models.CreatePostRequest) (models.Post, error) {
	status := req.Status
	if status == "" {
		status = models.PostActive
	}

	var p models.Post
	err := r.db.QueryRow(`
		INSERT INTO posts (title, description, author_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, status, created_at
	`, req.Title, req.Description, authorID, status).Scan(
		&p.ID, &p.Title, &p.Description, &p.Status, &p.Date,
	)
	return p, err
}
