package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Chat is one persisted query/response exchange. Chats are immutable
// once created and always belong to exactly one user.
type Chat struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Input     string    `json:"input"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
