// Package orchestrator runs the post generation workflow: validation,
// optional hashtag enrichment, per-variation prompt rendering, model
// invocation, optional emoji enrichment and text analysis.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yates-Labs/linkforge/internal/analysis"
	"github.com/Yates-Labs/linkforge/internal/enrich"
	"github.com/Yates-Labs/linkforge/internal/llm"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// Config holds configuration for the generation workflow.
type Config struct {
	// LLM holds the model identifier, endpoint and credential
	LLM llm.LLMConfig

	// ParallelVariations generates variations concurrently.
	// Hashtags are still resolved first and result order is unchanged.
	ParallelVariations bool
}

// DefaultConfig returns the default workflow configuration without a credential.
func DefaultConfig() Config {
	return Config{
		LLM: llm.DefaultLLMConfig(),
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for stage tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator generates posts for validated requests. It keeps no state
// between calls and may be shared by concurrent requests.
type Orchestrator struct {
	config   Config
	llm      llm.LLM
	enricher *enrich.Enricher
	logger   *zap.Logger
}

// New creates an orchestrator talking to the OpenAI-compatible endpoint
// described by config.LLM. A missing credential is fatal here rather than on
// the first call.
func New(config Config, opts ...Option) (*Orchestrator, error) {
	if strings.TrimSpace(config.LLM.APIKey) == "" {
		return nil, fmt.Errorf("%w: no API key configured for provider %q", ErrMissingCredential, config.LLM.Provider)
	}

	client, err := llm.NewOpenAILLM(config.LLM)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return nil, fmt.Errorf("%w: %w", ErrMissingCredential, err)
		}
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}

	return NewWithLLM(client, config, opts...)
}

// NewWithLLM creates an orchestrator around an existing client.
func NewWithLLM(client llm.LLM, config Config, opts ...Option) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.New("LLM client is required")
	}

	o := &Orchestrator{
		config:   config,
		llm:      client,
		enricher: enrich.NewEnricher(client),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Model returns the configured model identifier.
func (o *Orchestrator) Model() string {
	return o.config.LLM.Model
}

// Generate produces req.Variations posts in order. It either returns every
// post or fails the whole call; partial results are never returned.
func (o *Orchestrator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	log := o.logger.With(
		zap.String("template", string(req.Template)),
		zap.String("tone", string(req.Tone)),
		zap.Int("variations", req.Variations),
	)
	log.Debug("Generating posts",
		zap.Int("words", req.Words),
		zap.Bool("hashtags", req.AddHashtags),
		zap.Bool("emojis", req.AddEmojis),
		zap.Bool("parallel", o.config.ParallelVariations))

	// Stage 1: topic-level hashtags, shared by every variation
	hashtags := ""
	if req.AddHashtags {
		hashtags = o.resolveHashtags(ctx, req.Prompt, log)
	}

	params := prompt.Params{
		Topic:    req.Prompt,
		Tone:     req.Tone,
		Words:    req.Words,
		Hashtags: hashtags,
		Emojis:   prompt.EmojiClause(req.AddEmojis),
	}

	// Stage 2: variations
	var (
		results GenerationResult
		err     error
	)
	if o.config.ParallelVariations && req.Variations > 1 {
		results, err = o.generateParallel(ctx, req, params, log)
	} else {
		results, err = o.generateSequential(ctx, req, params, log)
	}
	if err != nil {
		log.Debug("Generation failed", zap.Error(err))
		return nil, err
	}

	log.Info("Generated posts",
		zap.Int("count", len(results)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

// resolveHashtags returns the hashtag clause for topic. Failures and blank
// replies degrade to no clause.
func (o *Orchestrator) resolveHashtags(ctx context.Context, topic string, log *zap.Logger) string {
	raw, err := o.enricher.Hashtags(ctx, topic)
	if err != nil {
		log.Warn("Hashtag generation failed, continuing without hashtags", zap.Error(err))
		return ""
	}
	clause := prompt.HashtagClause(raw)
	if clause == "" {
		log.Warn("Hashtag generation returned no text, continuing without hashtags")
	}
	return clause
}

func (o *Orchestrator) generateSequential(ctx context.Context, req GenerationRequest, params prompt.Params, log *zap.Logger) (GenerationResult, error) {
	results := make(GenerationResult, 0, req.Variations)
	for i := range req.Variations {
		post, err := o.generateVariation(ctx, req, params, i, log)
		if err != nil {
			return nil, err
		}
		results = append(results, post)
	}
	return results, nil
}

func (o *Orchestrator) generateParallel(ctx context.Context, req GenerationRequest, params prompt.Params, log *zap.Logger) (GenerationResult, error) {
	results := make(GenerationResult, req.Variations)
	g, gctx := errgroup.WithContext(ctx)
	for i := range req.Variations {
		g.Go(func() error {
			post, err := o.generateVariation(gctx, req, params, i, log)
			if err != nil {
				return err
			}
			results[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// generateVariation renders, invokes, optionally decorates and analyzes one post.
func (o *Orchestrator) generateVariation(ctx context.Context, req GenerationRequest, params prompt.Params, i int, log *zap.Logger) (GeneratedPost, error) {
	n := i + 1

	rendered, err := prompt.Render(req.Template, params)
	if err != nil {
		return GeneratedPost{}, fmt.Errorf("variation %d: prompt assembly failed: %w", n, err)
	}
	log.Debug("Assembled prompt", zap.Int("variation", n), zap.Int("chars", len(rendered)))

	text, err := o.llm.Generate(ctx, rendered)
	if err != nil {
		return GeneratedPost{}, fmt.Errorf("%w: variation %d: %w", ErrUpstreamFailure, n, err)
	}

	if req.AddEmojis {
		text, err = o.enricher.Emojis(ctx, text)
		if err != nil {
			return GeneratedPost{}, fmt.Errorf("%w: variation %d: %w", ErrUpstreamFailure, n, err)
		}
	}

	post := GeneratedPost{
		Post:     text,
		Analysis: analysis.Analyze(text),
	}
	log.Debug("Generated variation",
		zap.Int("variation", n),
		zap.Int("word_count", post.Analysis.WordCount))
	return post, nil
}
