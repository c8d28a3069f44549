package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleBarman = "barman"
)

// Operator models an authenticated actor: someone who can stand behind a
// counter, sell, and refill. The core only ever references operators by ID;
// authentication happens at the API edge.
type Operator struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
