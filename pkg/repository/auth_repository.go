package repository

import (
	"database/sql"
	"strings"

	"github.com/shakil-official/comment-system/pkg/models"
)

type AuthRepository interface {
	CreateUser(name, email, hashedPassword string) (models.User, error)
	GetUserByEmail(email string) (models.User, string, error)
	GetUserByID(id string) (models.User, error)
}

type authRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(name, email, hashedPassword string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)
		 RETURNING id, name, email, created_at`,
		name, strings.ToLower(email), hashedPassword,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	return user, err
}

func (r *authRepository) GetUserByEmail(email string) (models.User, string, error) {
	var user models.User
	var hashedPw string
	err := r.db.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&user.ID, &user.Name, &user.Email, &hashedPw, &user.CreatedAt)
	return user, hashedPw, err
}

func (r *authRepository) GetUserByID(id string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`SELECT id, name, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	return user, err
}
