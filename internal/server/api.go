package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Yates-Labs/linkforge/internal/orchestrator"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// Response is the JSON envelope of the generate endpoint.
type Response struct {
	Success bool                          `json:"success"`
	Results orchestrator.GenerationResult `json:"results,omitempty"`
	Error   string                        `json:"error,omitempty"`
}

// OptionsResponse lists the accepted tones and templates.
type OptionsResponse struct {
	Tones     []string `json:"tones"`
	Templates []string `json:"templates"`
	Defaults  struct {
		Words      int    `json:"words"`
		Tone       string `json:"tone"`
		Template   string `json:"template"`
		Variations int    `json:"variations"`
	} `json:"defaults"`
	MaxVariations int `json:"max_variations"`
}

func (s *Server) handleGenerate(c echo.Context) error {
	var raw orchestrator.RawRequest
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Error: "malformed request body"})
	}

	req := orchestrator.ParseRequest(raw)
	results, err := s.generate(c.Request().Context(), req)
	if err != nil {
		status := errorStatus(err)
		s.logger.Warn("Generation failed",
			zap.Int("status", status),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		return c.JSON(status, Response{Success: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, Response{Success: true, Results: results})
}

func (s *Server) handleOptions(c echo.Context) error {
	var resp OptionsResponse
	for _, t := range prompt.Tones() {
		resp.Tones = append(resp.Tones, string(t))
	}
	for _, t := range prompt.Templates() {
		resp.Templates = append(resp.Templates, string(t))
	}
	resp.Defaults.Words = orchestrator.DefaultWords
	resp.Defaults.Tone = string(orchestrator.DefaultTone)
	resp.Defaults.Template = string(orchestrator.DefaultTemplate)
	resp.Defaults.Variations = orchestrator.DefaultVariations
	resp.MaxVariations = orchestrator.MaxVariations
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// generate runs one request under the configured timeout.
func (s *Server) generate(ctx context.Context, req orchestrator.GenerationRequest) (orchestrator.GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()
	return s.gen.Generate(ctx, req)
}

// errorStatus maps a generation error to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, orchestrator.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
