package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Yates-Labs/linkforge/internal/orchestrator"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// Form word count bounds.
const (
	FormMinWords = 50
	FormMaxWords = 500
)

const prefsSession = "linkforge_prefs"

func (s *Server) handleForm(c echo.Context) error {
	state := s.loadPrefs(c)
	state.CSRF = csrfToken(c)
	return Render(c, FormPage(state, orchestrator.MaxVariations))
}

func (s *Server) handleFormSubmit(c echo.Context) error {
	state, raw, err := readForm(c)
	state.CSRF = csrfToken(c)
	if err != nil {
		state.Error = formError(err)
		return RenderStatus(c, http.StatusBadRequest, FormPage(state, orchestrator.MaxVariations))
	}

	s.savePrefs(c, state)

	req := orchestrator.ParseDecoratedRequest(raw)
	results, err := s.generate(c.Request().Context(), req)
	if err != nil {
		s.logger.Warn("Form generation failed", zap.Error(err))
		state.Error = formError(err)
		return RenderStatus(c, errorStatus(err), FormPage(state, orchestrator.MaxVariations))
	}

	for i, r := range results {
		state.Results = append(state.Results, PostView{
			Number:   i + 1,
			HTML:     s.md.Render(r.Post),
			Raw:      r.Post,
			Analysis: r.Analysis,
		})
	}
	return Render(c, FormPage(state, orchestrator.MaxVariations))
}

// readForm decodes the submitted form. The returned state echoes what the
// user sent so a failed submission re-renders with their input.
func readForm(c echo.Context) (FormState, orchestrator.RawRequest, error) {
	raw := orchestrator.RawRequest{
		Prompt:      c.FormValue("prompt"),
		Tone:        c.FormValue("tone"),
		Template:    c.FormValue("template"),
		AddHashtags: checked(c.FormValue("add_hashtags")),
		AddEmojis:   checked(c.FormValue("add_emojis")),
	}
	state := FormState{
		Prompt:     raw.Prompt,
		Words:      orchestrator.DefaultWords,
		Tone:       prompt.Tone(prompt.StripDecoration(raw.Tone)),
		Template:   prompt.Template(prompt.StripDecoration(raw.Template)),
		Variations: orchestrator.DefaultVariations,
		Hashtags:   raw.AddHashtags,
		Emojis:     raw.AddEmojis,
	}

	if v := strings.TrimSpace(c.FormValue("variations")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, raw, &orchestrator.InvalidParameterError{Field: "variations", Reason: "not a number"}
		}
		raw.Variations = &n
		state.Variations = n
	}

	if v := strings.TrimSpace(c.FormValue("words")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, raw, &orchestrator.InvalidParameterError{Field: "words", Reason: "not a number"}
		}
		state.Words = n
		if n < FormMinWords || n > FormMaxWords {
			return state, raw, &orchestrator.InvalidParameterError{
				Field:  "words",
				Reason: "must be between " + strconv.Itoa(FormMinWords) + " and " + strconv.Itoa(FormMaxWords),
			}
		}
		raw.Words = &n
	}

	return state, raw, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func formError(err error) string {
	var ipe *orchestrator.InvalidParameterError
	switch {
	case errors.As(err, &ipe):
		return "Please check your input: " + ipe.Error()
	case errors.Is(err, orchestrator.ErrUpstreamFailure):
		return "Error generating post: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

func csrfToken(c echo.Context) string {
	tok, _ := c.Get("csrf").(string)
	return tok
}

// loadPrefs returns the form defaults overlaid with the settings remembered
// from the last submission.
func (s *Server) loadPrefs(c echo.Context) FormState {
	state := FormState{
		Words:      orchestrator.DefaultWords,
		Tone:       orchestrator.DefaultTone,
		Template:   orchestrator.DefaultTemplate,
		Variations: orchestrator.DefaultVariations,
		Hashtags:   true,
		Emojis:     true,
	}

	sess, err := session.Get(prefsSession, c)
	if err != nil || sess.IsNew {
		return state
	}
	if v, ok := sess.Values["words"].(int); ok {
		state.Words = v
	}
	if v, ok := sess.Values["tone"].(string); ok && prompt.Tone(v).Valid() {
		state.Tone = prompt.Tone(v)
	}
	if v, ok := sess.Values["template"].(string); ok && prompt.Template(v).Valid() {
		state.Template = prompt.Template(v)
	}
	if v, ok := sess.Values["variations"].(int); ok {
		state.Variations = v
	}
	if v, ok := sess.Values["hashtags"].(bool); ok {
		state.Hashtags = v
	}
	if v, ok := sess.Values["emojis"].(bool); ok {
		state.Emojis = v
	}
	return state
}

func (s *Server) savePrefs(c echo.Context, state FormState) {
	// A cookie signed with an old secret fails to decode but still yields a
	// fresh session to overwrite it with.
	sess, _ := session.Get(prefsSession, c)
	if sess == nil {
		return
	}
	sess.Values["words"] = state.Words
	sess.Values["tone"] = string(state.Tone)
	sess.Values["template"] = string(state.Template)
	sess.Values["variations"] = state.Variations
	sess.Values["hashtags"] = state.Hashtags
	sess.Values["emojis"] = state.Emojis
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		s.logger.Warn("Failed to save form preferences", zap.Error(err))
	}
}
