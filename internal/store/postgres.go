package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, persistErr("open database", err)
	}
	if err = db.Ping(); err != nil {
		return nil, persistErr("ping database", err)
	}

	s := &PostgresStore{db: db}
	if err = s.initSchema(); err != nil {
		return nil, persistErr("initialize schema", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id BIGSERIAL PRIMARY KEY,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users (id),
        title TEXT NOT NULL,
        input TEXT NOT NULL,
        response TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats (user_id, created_at DESC);
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2)
         RETURNING id, email, password_hash, created_at`,
		email, passwordHash).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, persistErr("insert user", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1", email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, persistErr("query user", err)
	}
	return &user, nil
}

func (s *PostgresStore) CreateChat(ctx context.Context, userID int64, title, input, response string) (*Chat, error) {
	chat := &Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Input:     input,
		Response:  response,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (id, user_id, title, input, response, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		chat.ID, chat.UserID, chat.Title, chat.Input, chat.Response, chat.CreatedAt)
	if err != nil {
		return nil, persistErr("insert chat", err)
	}
	return chat, nil
}

func (s *PostgresStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, input, response, created_at FROM chats WHERE id = $1 AND user_id = $2",
		chatID, userID).
		Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Input, &chat.Response, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, persistErr("get chat", err)
	}
	return &chat, nil
}

func (s *PostgresStore) ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, title, input, response, created_at FROM chats WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, persistErr("query chats", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Input, &chat.Response, &chat.CreatedAt); err != nil {
			return nil, persistErr("scan chat row", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate chat rows", err)
	}
	return chats, nil
}
