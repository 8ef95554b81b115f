package orchestrator

import (
	"strings"
)

// Validate checks req before any model call is made.
// The first failing field is reported as an *InvalidParameterError.
func Validate(req GenerationRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return invalid("prompt", "must not be empty")
	}
	if req.Variations < MinVariations || req.Variations > MaxVariations {
		return invalid("variations", "must be between %d and %d, got %d", MinVariations, MaxVariations, req.Variations)
	}
	if !req.Tone.Valid() {
		return invalid("tone", "%q is not one of %s", string(req.Tone), joinTones())
	}
	if !req.Template.Valid() {
		return invalid("template", "%q is not one of %s", string(req.Template), joinTemplates())
	}
	if req.Words < 1 {
		return invalid("words", "must be positive, got %d", req.Words)
	}
	return nil
}
