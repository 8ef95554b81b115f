package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yates-Labs/linkforge/internal/analysis"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
)

// ResultExport is a generation result together with the request that produced it.
type ResultExport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Model       string                `json:"model,omitempty"`
	Request     GenerationRequest     `json:"request"`
	Results     GenerationResult      `json:"results"`
	Totals      analysis.PostAnalysis `json:"totals"`
}

// NewResultExport bundles req and result for export.
func NewResultExport(model string, req GenerationRequest, result GenerationResult) ResultExport {
	return ResultExport{
		GeneratedAt: time.Now().UTC(),
		Model:       model,
		Request:     req,
		Results:     result,
		Totals:      result.Totals(),
	}
}

// ExportResults writes export in the requested format (json or markdown).
func ExportResults(export ResultExport, format string, writer io.Writer) error {
	switch ExportFormat(strings.ToLower(format)) {
	case FormatJSON:
		return exportJSON(export, writer)
	case FormatMarkdown, "md":
		return exportMarkdown(export, writer)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, markdown)", format)
	}
}

// exportJSON writes the export as indented JSON
func exportJSON(export ResultExport, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// exportMarkdown writes one section per variation
func exportMarkdown(export ResultExport, writer io.Writer) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", export.Request.Prompt))
	b.WriteString(fmt.Sprintf("_Template: %s · Tone: %s · Target: %d words_\n\n",
		export.Request.Template, export.Request.Tone, export.Request.Words))

	for i, post := range export.Results {
		b.WriteString(fmt.Sprintf("## Variation %d\n\n", i+1))
		b.WriteString(strings.TrimSpace(post.Post))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("- Words: %d\n- Characters: %d\n- Sentences: %d\n\n",
			post.Analysis.WordCount, post.Analysis.CharCount, post.Analysis.SentenceCount))
	}

	_, err := io.WriteString(writer, b.String())
	return err
}
