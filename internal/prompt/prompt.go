// Package prompt holds the closed sets of tones and templates and renders the
// prompt sent to the model for each post variation.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownTone     = errors.New("unknown tone")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Tone is the voice the post is written in.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneFriendly      Tone = "friendly"
	ToneEnthusiastic  Tone = "enthusiastic"
	ToneAuthoritative Tone = "authoritative"
	ToneCasual        Tone = "casual"
)

var tones = []Tone{ToneProfessional, ToneFriendly, ToneEnthusiastic, ToneAuthoritative, ToneCasual}

// Tones returns every supported tone in display order.
func Tones() []Tone {
	out := make([]Tone, len(tones))
	copy(out, tones)
	return out
}

// Valid reports whether t is one of the supported tones.
func (t Tone) Valid() bool {
	for _, known := range tones {
		if t == known {
			return true
		}
	}
	return false
}

// Template selects the skeleton the post prompt is built from.
type Template string

const (
	TemplateInformative   Template = "informative"
	TemplateCasual        Template = "casual"
	TemplateInspirational Template = "inspirational"
)

var templates = []Template{TemplateInformative, TemplateCasual, TemplateInspirational}

// Templates returns every supported template in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Valid reports whether t is one of the supported templates.
func (t Template) Valid() bool {
	_, ok := templateBodies[t]
	return ok
}

// OutputConstraint closes every rendered prompt. Post analysis relies on the
// model returning the post body only.
const OutputConstraint = "Strictly output only the post content, no other text or comments and any fillers. DO NOT OUTPUT ANYTHING ELSE."

const (
	emojiInstruction = "Add relevant emojis to make the post more engaging."
	hashtagPrefix    = "Include these hashtags: "
)

var templateBodies = map[Template]string{
	TemplateInformative: `Write a professional LinkedIn post about: {prompt}
The post should be informative and provide value to the readers.
Keep the tone {tone} and the length approximately {words} words.
{hashtags}
{emojis}
` + OutputConstraint,
	TemplateCasual: `Write a casual but professional LinkedIn post about: {prompt}
The post should be engaging and conversational.
Keep the tone {tone} and the length approximately {words} words.
{hashtags}
{emojis}
` + OutputConstraint,
	TemplateInspirational: `Write an inspirational LinkedIn post about: {prompt}
The post should motivate and inspire the readers.
Keep the tone {tone} and the length approximately {words} words.
{hashtags}
{emojis}
` + OutputConstraint,
}

// Params are the already-resolved values substituted into a template.
// Hashtags and Emojis are complete clauses, empty when disabled.
type Params struct {
	Topic    string
	Tone     Tone
	Words    int
	Hashtags string
	Emojis   string
}

// Render substitutes p into the body of t. Substitution is a single literal
// pass, so placeholder-looking text inside the topic is left untouched.
func Render(t Template, p Params) (string, error) {
	body, ok := templateBodies[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, string(t))
	}
	r := strings.NewReplacer(
		"{prompt}", p.Topic,
		"{tone}", string(p.Tone),
		"{words}", strconv.Itoa(p.Words),
		"{hashtags}", p.Hashtags,
		"{emojis}", p.Emojis,
	)
	return r.Replace(body), nil
}

// HashtagClause turns raw hashtag text into the template clause. Blank input
// yields an empty clause.
func HashtagClause(hashtags string) string {
	hashtags = strings.TrimSpace(hashtags)
	if hashtags == "" {
		return ""
	}
	return hashtagPrefix + hashtags
}

// EmojiClause returns the emoji instruction when enabled.
func EmojiClause(enabled bool) string {
	if !enabled {
		return ""
	}
	return emojiInstruction
}
