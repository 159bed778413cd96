package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatforge/chatforge/internal/store"
)

var (
	// ErrInvalidInput marks missing required fields on chat creation.
	ErrInvalidInput = errors.New("input and response are required")
	// ErrDuplicateEmail is returned when signing up an email that
	// already has a user.
	ErrDuplicateEmail = errors.New("email already registered")
)

// deriveTitleLimit bounds titles derived from the input text.
const deriveTitleLimit = 50

// ChatService owns the chat-history contract: chats are created under a
// resolved owner, listed newest-first, and never visible to anyone but
// their owner.
type ChatService struct {
	store  store.Store
	logger *zap.Logger
}

func NewChatService(st store.Store, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:  st,
		logger: logger,
	}
}

// User methods, the glue for the identity collaborator.

func (s *ChatService) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.store.GetUserByEmail(ctx, email)
}

func (s *ChatService) CreateUser(ctx context.Context, email, passwordHash string) (*store.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	return s.store.CreateUser(ctx, email, passwordHash)
}

// Chat methods.

// CreateChat persists one exchange under ownerID. The owner always
// comes from the resolved session; any client-supplied owner id was
// discarded upstream. An empty title is derived from the input.
func (s *ChatService) CreateChat(ctx context.Context, ownerID int64, title, input, response string) (*store.Chat, error) {
	if input == "" || response == "" {
		return nil, ErrInvalidInput
	}
	if title == "" {
		title = deriveTitle(input)
	}

	chat, err := s.store.CreateChat(ctx, ownerID, title, input, response)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (s *ChatService) ListChats(ctx context.Context, ownerID int64) ([]store.Chat, error) {
	return s.store.ListChatsByOwner(ctx, ownerID)
}

// GetChat returns the chat only when it exists and belongs to ownerID;
// (nil, nil) otherwise.
func (s *ChatService) GetChat(ctx context.Context, chatID string, ownerID int64) (*store.Chat, error) {
	return s.store.GetChatByID(ctx, chatID, ownerID)
}

func deriveTitle(input string) string {
	runes := []rune(input)
	if len(runes) <= deriveTitleLimit {
		return input
	}
	return string(runes[:deriveTitleLimit]) + "..."
}
