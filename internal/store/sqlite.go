package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, persistErr("open database", err)
	}
	if err = db.Ping(); err != nil {
		return nil, persistErr("ping database", err)
	}

	s := &SQLiteStore{db: db}
	if err = s.initSchema(); err != nil {
		return nil, persistErr("initialize schema", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        input TEXT NOT NULL,
        response TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats (user_id, created_at DESC);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO users (email, password_hash) VALUES (?, ?)", email, passwordHash)
	if err != nil {
		return nil, persistErr("insert user", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(ctx, id)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, persistErr("query user", err)
	}
	return &user, nil
}

func (s *SQLiteStore) getUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, persistErr("get user by id", err)
	}
	return &user, nil
}

// Chat methods

func (s *SQLiteStore) CreateChat(ctx context.Context, userID int64, title, input, response string) (*Chat, error) {
	chat := &Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Input:     input,
		Response:  response,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.PrepareContext(ctx,
		"INSERT INTO chats (id, user_id, title, input, response, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, persistErr("prepare chat insert", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, chat.ID, chat.UserID, chat.Title, chat.Input, chat.Response, chat.CreatedAt)
	if err != nil {
		return nil, persistErr("execute chat insert", err)
	}
	return chat, nil
}

func (s *SQLiteStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, input, response, created_at FROM chats WHERE id = ? AND user_id = ?",
		chatID, userID).
		Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Input, &chat.Response, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, persistErr("get chat", err)
	}
	return &chat, nil
}

func (s *SQLiteStore) ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, title, input, response, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC",
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
