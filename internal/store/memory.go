package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. Used for tests and
// local runs without a database.
type MemoryStore struct {
	mu         sync.RWMutex
	nextUserID int64
	users      map[int64]*User
	chats      map[string]*Chat
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID: 1,
		users:      make(map[int64]*User),
		chats:      make(map[string]*Chat),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &User{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextUserID++
	s.users[user.ID] = user

	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateChat(ctx context.Context, userID int64, title, input, response string) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := &Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Input:     input,
		Response:  response,
		CreatedAt: time.Now().UTC(),
	}
	s.chats[chat.ID] = chat

	c := *chat
	return &c, nil
}

func (s *MemoryStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, exists := s.chats[chatID]
	if !exists || chat.UserID != userID {
		return nil, nil
	}
	c := *chat
	return &c, nil
}

func (s *MemoryStore) ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chats []Chat
	for _, chat := range s.chats {
		if chat.UserID == userID {
			chats = append(chats, *chat)
		}
	}

	// Newest first
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	return chats, nil
}
