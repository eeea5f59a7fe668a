package services

import (
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/repository"
)

type AuthService interface {
	Register(req models.RegisterRequest) (models.Credentials, error)
	Login(req models.LoginRequest) (models.Credentials, error)
	Me(userID string) (models.User, error)
}

type authService struct {
	repo      repository.AuthRepository
	jwtSecret string
}

func NewAuthService(repo repository.AuthRepository) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-key-change-in-production"
	}
	return &authService{repo: repo, jwtSecret: secret}
}

func (s *authService) Register(req models.RegisterRequest) (models.Credentials, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Credentials{}, fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.Credentials{}, fmt.Errorf("invalid email")
	}
	if len(req.Password) < 6 {
		return models.Credentials{}, fmt.Errorf("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("internal error")
	}

	user, err := s.repo.CreateUser(strings.TrimSpace(req.Name), req.Email, string(hashed))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.Credentials{}, fmt.Errorf("email already registered")
		}
		return models.Credentials{}, fmt.Errorf("could not create account")
	}

	return s.credentials(user)
}

func (s *authService) Login(req models.LoginRequest) (models.Credentials, error) {
	if req.Email == "" || req.Password == "" {
		return models.Credentials{}, fmt.Errorf("email and password are required")
	}

	user, hashedPw, err := s.repo.GetUserByEmail(req.Email)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("incorrect email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hashedPw), []byte(req.Password)) != nil {
		return models.Credentials{}, fmt.Errorf("incorrect email or password")
	}

	return s.credentials(user)
}

func (s *authService) Me(userID string) (models.User, error) {
	return s.repo.GetUserByID(userID)
}

func (s *authService) credentials(user models.User) (models.Credentials, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return models.Credentials{}, fmt.Errorf("internal error")
	}

	return models.Credentials{ID: user.ID, Email: user.Email, Token: signed}, nil
}
