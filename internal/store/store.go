package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrPersistence wraps all storage-layer failures. Callers map it to a
// generic 500-class response; the underlying driver error is only logged.
var ErrPersistence = errors.New("storage failure")

// Store is the persistence gateway for users and chats.
//
// CreateChat assigns the chat ID and creation timestamp at insertion
// time. ListChatsByOwner returns the owner's chats ordered by
// created_at descending and never includes another user's chats.
// Lookup methods return (nil, nil) when no row matches.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	CreateChat(ctx context.Context, userID int64, title, input, response string) (*Chat, error)
	GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error)
	ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error)

	Close() error
}

// Open selects a Store implementation from the data source name:
// "memory" gives the in-process store, a postgres:// URL the PostgreSQL
// store, anything else is treated as a SQLite file path.
func Open(dsn string, logger *zap.Logger) (Store, error) {
	switch {
	case dsn == "memory":
		logger.Info("Using in-memory storage")
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		logger.Info("Using PostgreSQL storage")
		return NewPostgresStore(dsn)
	default:
		logger.Info("Using SQLite storage", zap.String("path", dsn))
		return NewSQLiteStore(dsn)
	}
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
