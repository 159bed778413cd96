package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chatforge/chatforge/internal/auth"
	"github.com/chatforge/chatforge/internal/core"
	"github.com/chatforge/chatforge/internal/store"
	"github.com/go-chi/chi/v5"
)

// Generic messages returned to callers; the real error only goes to the log.
const (
	msgGenerationUnavailable = "Our service is temporarily unavailable. Please try again later."
	msgInternalError         = "Internal Server Error"
)

type ctxKey int

const userCtxKey ctxKey = iota

type APIHandler struct {
	chats      *core.ChatService
	generation *core.GenerationService
	jwt        *auth.JWTManager
	logger     *zap.Logger
}

func NewAPIHandler(chats *core.ChatService, generation *core.GenerationService, jwt *auth.JWTManager, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		chats:      chats,
		generation: generation,
		jwt:        jwt,
		logger:     logger,
	}
}

// AccessGate resolves the caller before any store or provider call:
// bearer token -> email claim -> user record. Unauthenticated callers
// get 401, a valid token whose email maps to no user gets 404.
func (h *APIHandler) AccessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		email, err := h.jwt.Validate(tokenString)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := h.chats.GetUserByEmail(r.Context(), email)
		if err != nil {
			h.logger.Error("access gate user lookup failed", zap.String("email", email), zap.Error(err))
			respondError(w, http.StatusInternalServerError, msgInternalError)
			return
		}
		if user == nil {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFrom(r *http.Request) *store.User {
	return r.Context().Value(userCtxKey).(*store.User)
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	user, err := h.chats.CreateUser(r.Context(), req.Email, hashed)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("user creation failed", zap.String("email", req.Email), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.chats.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("login user lookup failed", zap.String("email", req.Email), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwt.Generate(user.Email)
	if err != nil {
		h.logger.Error("token generation failed", zap.String("email", req.Email), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type GenerateRequest struct {
	Query string `json:"query"`
}

func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.generation.Respond(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuery) {
			respondError(w, http.StatusBadRequest, "Query is required")
			return
		}
		h.logger.Error("generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgGenerationUnavailable)
		return
	}

	respondJSON(w, http.StatusOK, reply)
}

type CreateChatRequest struct {
	Title    string `json:"title"`
	Input    string `json:"input"`
	Response string `json:"response"`
	// UserID is accepted for wire compatibility but ignored; ownership
	// always comes from the resolved session user.
	UserID int64 `json:"user_id,omitempty"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	user := callerFrom(r)

	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chats.CreateChat(r.Context(), user.ID, req.Title, req.Input, req.Response)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Input and response are required")
			return
		}
		h.logger.Error("chat creation failed", zap.Int64("user_id", user.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusCreated, chat)
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	user := callerFrom(r)

	chats, err := h.chats.ListChats(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("chat listing failed", zap.Int64("user_id", user.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if chats == nil {
		chats = []store.Chat{} // empty list, not null
	}

	respondJSON(w, http.StatusOK, chats)
}

func (h *APIHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	user := callerFrom(r)
	chatID := chi.URLParam(r, "chatID")

	chat, err := h.chats.GetChat(r.Context(), chatID, user.ID)
	if err != nil {
		h.logger.Error("chat lookup failed", zap.Int64("user_id", user.ID), zap.String("chat_id", chatID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if chat == nil {
		respondError(w, http.StatusNotFound, "Chat not found")
		return
	}

	respondJSON(w, http.StatusOK, chat)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
