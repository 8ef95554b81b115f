package orchestrator

import (
	"errors"
	"fmt"

	"github.com/Yates-Labs/linkforge/internal/analysis"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// Variation bounds and request defaults.
const (
	MinVariations = 1
	MaxVariations = 3

	DefaultWords      = 200
	DefaultTone       = prompt.ToneProfessional
	DefaultTemplate   = prompt.TemplateInformative
	DefaultVariations = 1
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrMissingCredential = errors.New("missing credential")
)

// InvalidParameterError reports the request field that failed validation.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid parameter %q", e.Field)
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrInvalidParameter.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(field, format string, args ...any) error {
	return &InvalidParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// GenerationRequest describes the posts to generate.
type GenerationRequest struct {
	Prompt      string          `json:"prompt"`
	Words       int             `json:"words"`
	Tone        prompt.Tone     `json:"tone"`
	Template    prompt.Template `json:"template"`
	AddHashtags bool            `json:"add_hashtags"`
	AddEmojis   bool            `json:"add_emojis"`
	Variations  int             `json:"variations"`
}

// DefaultRequest returns a request with every optional field at its default.
func DefaultRequest(topic string) GenerationRequest {
	return GenerationRequest{
		Prompt:     topic,
		Words:      DefaultWords,
		Tone:       DefaultTone,
		Template:   DefaultTemplate,
		Variations: DefaultVariations,
	}
}

// GeneratedPost is one finished variation.
type GeneratedPost struct {
	Post     string                `json:"post"`
	Analysis analysis.PostAnalysis `json:"analysis"`
}

// GenerationResult holds the posts in generation order.
type GenerationResult []GeneratedPost

// Posts returns the post texts in order.
func (r GenerationResult) Posts() []string {
	out := make([]string, len(r))
	for i, p := range r {
		out[i] = p.Post
	}
	return out
}

// Totals sums the analysis of every post.
func (r GenerationResult) Totals() analysis.PostAnalysis {
	all := make([]analysis.PostAnalysis, len(r))
	for i, p := range r {
		all[i] = p.Analysis
	}
	return analysis.Merge(all...)
}
