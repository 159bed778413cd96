package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chatforge/chatforge/internal/classifier"
	"github.com/chatforge/chatforge/internal/llm"
	"github.com/chatforge/chatforge/internal/prompt"
)

// ErrEmptyQuery rejects empty input before any provider call is made.
var ErrEmptyQuery = errors.New("query must not be empty")

// Reply pairs the completion text with the classification flag the
// client uses for rendering hints.
type Reply struct {
	Content string `json:"content"`
	IsCode  bool   `json:"is_code"`
}

// GenerationService composes the pipeline: classify the query, render
// the matching prompt template, call the provider.
type GenerationService struct {
	provider llm.Provider
	logger   *zap.Logger
}

func NewGenerationService(provider llm.Provider, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		provider: provider,
		logger:   logger,
	}
}

// Respond answers a single query. Each query is classified and answered
// independently; there is no conversational threading.
func (s *GenerationService) Respond(ctx context.Context, rawQuery string) (*Reply, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, ErrEmptyQuery
	}

	isCode := classifier.IsCodeRelated(rawQuery)
	rendered := prompt.Build(isCode, rawQuery, prompt.Options{})

	content, err := s.provider.Generate(ctx, rendered)
	if err != nil {
		s.logger.Error("provider call failed",
			zap.Bool("is_code", isCode),
			zap.Error(err))
		return nil, fmt.Errorf("generate completion: %w", err)
	}

	return &Reply{Content: content, IsCode: isCode}, nil
}
