package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/linkforge/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Count words, characters and sentences in a post",
	Long: `Analyze a post read from a file, or from stdin when no file or "-" is given.

The metrics are the same ones reported for generated posts:
- Words: runs of letters, digits and underscores
- Characters: Unicode code points, whitespace and emojis included
- Sentences: runs of '.', '!' or '?'

Examples:
  linkforge analyze post.txt
  pbpaste | linkforge analyze`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read post: %w", err)
	}

	outputTable(cmd.OutOrStdout(), analysis.Analyze(string(data)))
	return nil
}

func outputTable(out io.Writer, a analysis.PostAnalysis) {
	const (
		metricWidth = 14
		valueWidth  = 10
	)

	headStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	nameStyle := lipgloss.NewStyle().
		Foreground(topicColor).
		Padding(0, 1).
		Width(metricWidth)

	numStyle := lipgloss.NewStyle().
		Foreground(numberColor).
		Padding(0, 1).
		Width(valueWidth).
		Align(lipgloss.Right)

	fmt.Fprintln(out, strings.Join([]string{
		headStyle.Width(metricWidth).Render("METRIC"),
		headStyle.Width(valueWidth).Render("VALUE"),
	}, borderStyle.Render("│")))
	fmt.Fprintln(out, borderStyle.Render(strings.Repeat("─", metricWidth)+"┼"+strings.Repeat("─", valueWidth)))

	rows := []struct {
		name  string
		value int
	}{
		{"Words", a.WordCount},
		{"Characters", a.CharCount},
		{"Sentences", a.SentenceCount},
	}
	for _, r := range rows {
		fmt.Fprintln(out, strings.Join([]string{
			nameStyle.Render(r.name),
			numStyle.Render(fmt.Sprintf("%d", r.value)),
		}, borderStyle.Render("│")))
	}
}
