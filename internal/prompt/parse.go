package prompt

import (
	"fmt"
	"strings"
)

// Decorated labels shown by the form. The canonical token always comes first.
var (
	toneLabels = map[Tone]string{
		ToneProfessional:  "professional 🧑‍💼",
		ToneFriendly:      "friendly 😊",
		ToneEnthusiastic:  "enthusiastic 🤩",
		ToneAuthoritative: "authoritative 🦸‍♂️",
		ToneCasual:        "casual 😎",
	}
	templateLabels = map[Template]string{
		TemplateInformative:   "informative 📚",
		TemplateCasual:        "casual 🥳",
		TemplateInspirational: "inspirational 🌈",
	}
)

// Label returns the decorated display label for t.
func (t Tone) Label() string {
	if l, ok := toneLabels[t]; ok {
		return l
	}
	return string(t)
}

// Label returns the decorated display label for t.
func (t Template) Label() string {
	if l, ok := templateLabels[t]; ok {
		return l
	}
	return string(t)
}

// StripDecoration reduces a decorated label such as "friendly 😊" to its
// canonical token.
func StripDecoration(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseTone resolves a possibly decorated label to a Tone.
func ParseTone(label string) (Tone, error) {
	t := Tone(StripDecoration(label))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTone, label)
	}
	return t, nil
}

// ParseTemplate resolves a possibly decorated label to a Template.
func ParseTemplate(label string) (Template, error) {
	t := Template(StripDecoration(label))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, label)
	}
	return t, nil
}
