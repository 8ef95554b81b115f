package orchestrator

import (
	"strings"

	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// RawRequest is a request as it arrives at a boundary: loose strings and
// optional numbers. Nil pointers and empty strings take the defaults.
type RawRequest struct {
	Prompt      string `json:"prompt"`
	Words       *int   `json:"words,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Template    string `json:"template,omitempty"`
	AddHashtags bool   `json:"add_hashtags,omitempty"`
	AddEmojis   bool   `json:"add_emojis,omitempty"`
	Variations  *int   `json:"variations,omitempty"`
}

// ParseRequest applies defaults to raw and converts it to a typed request.
// It does not validate; Generate does.
func ParseRequest(raw RawRequest) GenerationRequest {
	req := DefaultRequest(raw.Prompt)
	if raw.Words != nil {
		req.Words = *raw.Words
	}
	if tone := strings.TrimSpace(raw.Tone); tone != "" {
		req.Tone = prompt.Tone(tone)
	}
	if tmpl := strings.TrimSpace(raw.Template); tmpl != "" {
		req.Template = prompt.Template(tmpl)
	}
	if raw.Variations != nil {
		req.Variations = *raw.Variations
	}
	req.AddHashtags = raw.AddHashtags
	req.AddEmojis = raw.AddEmojis
	return req
}

// ParseDecoratedRequest is ParseRequest for form input whose tone and
// template values carry display decorations such as "friendly 😊".
func ParseDecoratedRequest(raw RawRequest) GenerationRequest {
	raw.Tone = prompt.StripDecoration(raw.Tone)
	raw.Template = prompt.StripDecoration(raw.Template)
	return ParseRequest(raw)
}

func joinTones() string {
	names := make([]string, 0, len(prompt.Tones()))
	for _, t := range prompt.Tones() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func joinTemplates() string {
	names := make([]string, 0, len(prompt.Templates()))
	for _, t := range prompt.Templates() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
