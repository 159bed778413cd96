package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatforge/chatforge/internal/auth"
	"github.com/chatforge/chatforge/internal/core"
	"github.com/chatforge/chatforge/internal/llm"
	"github.com/chatforge/chatforge/internal/store"
)

type testEnv struct {
	router   http.Handler
	store    *store.MemoryStore
	provider *llm.Fake
	jwt      *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	provider := llm.NewFake("generated content")
	jwtManager := auth.NewJWTManager("test-secret")
	logger := zap.NewNop()

	handler := NewAPIHandler(
		core.NewChatService(st, logger),
		core.NewGenerationService(provider, logger),
		jwtManager,
		logger,
	)

	return &testEnv{
		router:   NewRouter(handler),
		store:    st,
		provider: provider,
		jwt:      jwtManager,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup creates a user and returns a valid session token for them.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/signup", "", map[string]string{"email": email, "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestAccessGate(t *testing.T) {
	t.Run("missing token gets 401 and no storage call", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", "", map[string]string{"input": "q", "response": "a"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/chats", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		// No chat was persisted for the rejected calls.
		rec = env.do(t, http.MethodGet, "/api/chats", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("invalid token gets 401", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/chats", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token for an unknown user gets 404", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.jwt.Generate("ghost@example.com")
		require.NoError(t, err)

		rec := env.do(t, http.MethodGet, "/api/chats", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("generate requires authentication", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/generate", "", map[string]string{"query": "fix my bug"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, env.provider.Calls())
	})
}

func TestGenerateHandler(t *testing.T) {
	t.Run("code query", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/generate", token, map[string]string{"query": "fix this function"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply core.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.True(t, reply.IsCode)
		assert.Equal(t, "generated content", reply.Content)
	})

	t.Run("prose query", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/generate", token, map[string]string{"query": "what is photosynthesis"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply core.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.False(t, reply.IsCode)
	})

	t.Run("empty query gets 400 without a provider call", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/generate", token, map[string]string{"query": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, env.provider.Calls())
	})

	t.Run("provider failure gets 500 with a sanitized message", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")
		env.provider.Err = llm.ErrGenerationFailed

		rec := env.do(t, http.MethodPost, "/api/generate", token, map[string]string{"query": "what is photosynthesis"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, msgGenerationUnavailable, resp["error"])
	})
}

func TestChatHandlers(t *testing.T) {
	t.Run("create then list returns the chat first", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", token,
			map[string]string{"title": "older", "input": "q1", "response": "a1"})
		require.Equal(t, http.StatusCreated, rec.Code)
		time.Sleep(2 * time.Millisecond)

		rec = env.do(t, http.MethodPost, "/api/chats", token,
			map[string]string{"title": "newest", "input": "q2", "response": "a2"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "newest", created.Title)

		rec = env.do(t, http.MethodGet, "/api/chats", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var chats []store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
		require.Len(t, chats, 2)
		assert.Equal(t, created.ID, chats[0].ID)
	})

	t.Run("missing input gets 400", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", token, map[string]string{"title": "t"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("client-supplied user_id is ignored", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", token,
			map[string]any{"input": "q", "response": "a", "user_id": 9999})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEqual(t, int64(9999), created.UserID)
	})

	t.Run("users never see each other's chats", func(t *testing.T) {
		env := newTestEnv(t)
		tokenA := env.signup(t, "a@example.com")
		tokenB := env.signup(t, "b@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", tokenA,
			map[string]string{"input": "a's question", "response": "a's answer"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var chatA store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatA))

		rec = env.do(t, http.MethodPost, "/api/chats", tokenB,
			map[string]string{"input": "b's question", "response": "b's answer"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/chats", tokenB, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var chatsB []store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatsB))
		require.Len(t, chatsB, 1)
		assert.Equal(t, "b's question", chatsB[0].Input)

		// Direct fetch of A's chat by B is a 404, not a leak.
		rec = env.do(t, http.MethodGet, "/api/chats/"+chatA.ID, tokenB, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get chat by id", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signup(t, "ada@example.com")

		rec := env.do(t, http.MethodPost, "/api/chats", token,
			map[string]string{"title": "t", "input": "q", "response": "a"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = env.do(t, http.MethodGet, "/api/chats/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got store.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "q", got.Input)
		assert.Equal(t, "a", got.Response)
	})
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("duplicate email gets 409", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "ada@example.com", "password": "x"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "ada@example.com", "password": "y"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("wrong password gets 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ada@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("password hash is never serialized", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "bob@example.com", "password": "x"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}
