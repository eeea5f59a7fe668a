package models

import "time"

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is what login/register hand back to the caller. The token is
// persisted client-side and attached as "Authorization: Bearer <token>".
type Credentials struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Token string `json:"token"`
}
