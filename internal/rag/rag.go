package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"querybot/internal/config"
	"querybot/internal/metrics"
	"querybot/internal/models"
	"querybot/internal/providers"
	"querybot/internal/vector"
)

var (
	ErrNoDocuments   = errors.New("no documents have been ingested yet")
	ErrEmptyQuestion = errors.New("question must not be empty")
)

type Options struct {
	Collection     string
	TopK           int
	PromptTemplate string
	Metrics        *metrics.Metrics
}

// Service answers questions from the indexed chunks. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	index      vector.Index
	embedder   providers.EmbeddingProvider
	llm        providers.LLMProvider
	collection string
	topK       int
	template   string
	metrics    *metrics.Metrics
}

func NewService(index vector.Index, embedder providers.EmbeddingProvider, llm providers.LLMProvider, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if strings.TrimSpace(opts.PromptTemplate) == "" {
		opts.PromptTemplate = config.DefaultPromptTemplate
	}
	if opts.Collection == "" {
		opts.Collection = "documents"
	}
	return &Service{
		index:      index,
		embedder:   embedder,
		llm:        llm,
		collection: opts.Collection,
		topK:       opts.TopK,
		template:   opts.PromptTemplate,
		metrics:    opts.Metrics,
	}
}

func (s *Service) Answer(ctx context.Context, question string) (models.Answer, error) {
	start := time.Now()
	ans, err := s.answer(ctx, question)
	switch {
	case err == nil:
		s.metrics.Query("ok", time.Since(start))
	case errors.Is(err, ErrNoDocuments), errors.Is(err, ErrEmptyQuestion):
		s.metrics.Query("rejected", time.Since(start))
	default:
		s.metrics.Query("error", time.Since(start))
	}
	return ans, err
}

func (s *Service) answer(ctx context.Context, question string) (models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return models.Answer{}, ErrEmptyQuestion
	}

	vectors, info, err := s.embedder.Embed(ctx, providers.EmbedRequest{Operation: "query", Inputs: []string{question}})
	if err != nil {
		s.metrics.ProviderError("embed", err)
		return models.Answer{}, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return models.Answer{}, fmt.Errorf("embed question: got %d vectors", len(vectors))
	}

	hits, err := s.index.Search(ctx, s.collection, vector.SearchQuery{Vector: vectors[0], Model: info.Model, TopK: s.topK})
	if err != nil {
		return models.Answer{}, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return models.Answer{}, ErrNoDocuments
	}

	passages := make([]string, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, h.Text)
	}
	prompt := BuildPrompt(s.template, strings.Join(passages, "\n\n"), question)

	resp, _, err := s.llm.Generate(ctx, providers.GenerateRequest{Operation: "rag_answer", Prompt: prompt})
	if err != nil {
		s.metrics.ProviderError("llm", err)
		return models.Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	return models.Answer{Answer: resp.Text, Context: passages}, nil
}

// BuildPrompt fills {context} and {question} in one pass, so placeholder
// text inside either value is left alone.
func BuildPrompt(template, context, question string) string {
	return strings.NewReplacer("{context}", context, "{question}", question).Replace(template)
}
