package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ListChatsByOwner_Ordering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Insert at t1 < t2 < t3; listing must yield t3, t2, t1.
	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		chat, err := s.CreateChat(ctx, 1, title, "input", "response")
		require.NoError(t, err)
		ids = append(ids, chat.ID)
		time.Sleep(2 * time.Millisecond)
	}

	chats, err := s.ListChatsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chats, 3)

	assert.Equal(t, ids[2], chats[0].ID)
	assert.Equal(t, ids[1], chats[1].ID)
	assert.Equal(t, ids[0], chats[2].ID)

	for i := 1; i < len(chats); i++ {
		assert.False(t, chats[i-1].CreatedAt.Before(chats[i].CreatedAt),
			"chats must be in non-increasing created_at order")
	}
}

func TestMemoryStore_ListChatsByOwner_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chatA, err := s.CreateChat(ctx, 1, "a", "input a", "response a")
	require.NoError(t, err)
	chatB, err := s.CreateChat(ctx, 2, "b", "input b", "response b")
	require.NoError(t, err)

	chatsA, err := s.ListChatsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chatsA, 1)
	assert.Equal(t, chatA.ID, chatsA[0].ID)
	for _, c := range chatsA {
		assert.Equal(t, int64(1), c.UserID)
	}

	chatsB, err := s.ListChatsByOwner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, chatsB, 1)
	assert.Equal(t, chatB.ID, chatsB[0].ID)
}

func TestMemoryStore_ListChatsByOwner_Empty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chats, err := s.ListChatsByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	user, err := s.CreateUser(ctx, "ada@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	got, err := s.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	missing, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
