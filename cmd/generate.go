package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/linkforge/internal/orchestrator"
)

var (
	genWords      int
	genTone       string
	genTemplate   string
	genHashtags   bool
	genEmojis     bool
	genVariations int
	genExport     string
	genFormat     string
	genTimeout    time.Duration
)

// postGenerator is the part of the orchestrator the generate command uses.
type postGenerator interface {
	Generate(ctx context.Context, req orchestrator.GenerationRequest) (orchestrator.GenerationResult, error)
	Model() string
}

// newGenerator is replaced in tests.
var newGenerator = func(config orchestrator.Config) (postGenerator, error) {
	return orchestrator.New(config, orchestrator.WithLogger(logger))
}

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate LinkedIn post variations for a topic",
	Long: `Generate one to three LinkedIn post variations for a topic.

Tone: professional, friendly, enthusiastic, authoritative, casual
Template: informative, casual, inspirational

Requires an API key for the configured provider (GROQ_API_KEY by default).

Examples:
  linkforge generate "AI in healthcare"
  linkforge generate "Remote work" --tone friendly --template casual --variations 3
  linkforge generate "Leadership lessons" --hashtags --emojis --export posts.md --format markdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&genWords, "words", "w", orchestrator.DefaultWords, "Approximate post length in words")
	generateCmd.Flags().StringVarP(&genTone, "tone", "t", string(orchestrator.DefaultTone), "Tone of the post")
	generateCmd.Flags().StringVar(&genTemplate, "template", string(orchestrator.DefaultTemplate), "Post template")
	generateCmd.Flags().BoolVar(&genHashtags, "hashtags", false, "Generate and include hashtags")
	generateCmd.Flags().BoolVar(&genEmojis, "emojis", false, "Add emojis to each post")
	generateCmd.Flags().IntVarP(&genVariations, "variations", "n", orchestrator.DefaultVariations, "Number of variations (1-3)")
	generateCmd.Flags().StringVar(&genExport, "export", "", "Export results to a file: --export <filename>")
	generateCmd.Flags().StringVar(&genFormat, "format", "json", "Export format: json or markdown")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 2*time.Minute, "Overall timeout for the generation")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	words, variations := genWords, genVariations
	req := orchestrator.ParseDecoratedRequest(orchestrator.RawRequest{
		Prompt:      topic,
		Words:       &words,
		Tone:        genTone,
		Template:    genTemplate,
		AddHashtags: genHashtags,
		AddEmojis:   genEmojis,
		Variations:  &variations,
	})
	// Reject bad flags before asking for a credential.
	if err := orchestrator.Validate(req); err != nil {
		return err
	}
	if genExport != "" {
		switch orchestrator.ExportFormat(strings.ToLower(genFormat)) {
		case orchestrator.FormatJSON, orchestrator.FormatMarkdown, "md":
		default:
			return fmt.Errorf("unsupported export format: %s (supported: json, markdown)", genFormat)
		}
	}

	gen, err := newGenerator(cfg.Orchestrator())
	if err != nil {
		if errors.Is(err, orchestrator.ErrMissingCredential) {
			return fmt.Errorf("%w (set GROQ_API_KEY or LINKFORGE_API_KEY)", err)
		}
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), genTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("→ Generating %d variation(s) with %s...", req.Variations, gen.Model())))
	}

	results, err := gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s generation timed out after %s: %w", errorStyle.Render("Error:"), genTimeout, err)
		}
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	if genExport != "" {
		return exportResults(out, orchestrator.NewResultExport(gen.Model(), req, results), genExport, genFormat)
	}

	printResults(out, topic, results)
	return nil
}

func exportResults(out io.Writer, export orchestrator.ResultExport, filename, format string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := orchestrator.ExportResults(export, format, file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Exported %d post(s) to %s\n", len(export.Results), filename)
	return nil
}

// Shared CLI palette.
var (
	headerColor = lipgloss.Color("#F780FF") // Bright pink
	topicColor  = lipgloss.Color("#8BE9FD") // Cyan
	postColor   = lipgloss.Color("#E9E9F4") // Light purple/white
	numberColor = lipgloss.Color("#FF79C6") // Pink
	borderColor = lipgloss.Color("#6272A4") // Muted purple
	errorColor  = lipgloss.Color("#FF5555") // Red

	headerStyle = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	topicStyle  = lipgloss.NewStyle().Foreground(topicColor).Italic(true)
	postStyle   = lipgloss.NewStyle().
			Foreground(postColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Width(80)
	metricStyle = lipgloss.NewStyle().Foreground(numberColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(borderColor).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

func printResults(out io.Writer, topic string, results orchestrator.GenerationResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Topic:"))
	fmt.Fprintln(out, topicStyle.Render(topic))

	for i, r := range results {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Variation %d", i+1)))
		fmt.Fprintln(out, postStyle.Render(strings.TrimSpace(r.Post)))
		fmt.Fprintln(out, metricStyle.Render(fmt.Sprintf("Words: %d  Characters: %d  Sentences: %d",
			r.Analysis.WordCount, r.Analysis.CharCount, r.Analysis.SentenceCount)))
	}
	fmt.Fprintln(out)
}
