// Package enrich implements the optional single-shot enrichment calls made
// around post generation: topic hashtags and emoji insertion.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yates-Labs/linkforge/internal/llm"
)

var (
	ErrEnrichmentFailed = errors.New("enrichment failed")
)

// Enricher wraps an LLM with the hashtag and emoji instructions.
// It holds no state beyond the client.
type Enricher struct {
	llm llm.LLM
}

// NewEnricher creates an enricher backed by client.
func NewEnricher(client llm.LLM) *Enricher {
	return &Enricher{llm: client}
}

// HashtagPrompt is the instruction sent to obtain hashtags for topic.
func HashtagPrompt(topic string) string {
	return fmt.Sprintf("Generate 5 relevant hashtags for a LinkedIn post about: %s. Return only the hashtags separated by spaces.", topic)
}

// EmojiPrompt is the instruction sent to decorate post with emojis.
func EmojiPrompt(post string) string {
	return fmt.Sprintf("Add relevant emojis to this LinkedIn post to make it more engaging:\n\n%s\n\nReturn the post with emojis added.", post)
}

// Hashtags asks the model for hashtags relevant to topic. The reply is
// returned verbatim; its format is not checked.
func (e *Enricher) Hashtags(ctx context.Context, topic string) (string, error) {
	return e.invoke(ctx, "hashtags", HashtagPrompt(topic))
}

// Emojis asks the model to return post with emojis inserted. The reply is
// trusted as is.
func (e *Enricher) Emojis(ctx context.Context, post string) (string, error) {
	return e.invoke(ctx, "emojis", EmojiPrompt(post))
}

func (e *Enricher) invoke(ctx context.Context, step, prompt string) (string, error) {
	if e.llm == nil {
		return "", fmt.Errorf("%w: %s: LLM is required", ErrEnrichmentFailed, step)
	}
	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEnrichmentFailed, step, err)
	}
	return text, nil
}
