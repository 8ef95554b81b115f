// Package analysis computes descriptive statistics over generated post text.
package analysis

import (
	"regexp"
	"unicode/utf8"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// PostAnalysis holds the metrics derived from a single post.
type PostAnalysis struct {
	WordCount     int `json:"word_count"`
	CharCount     int `json:"char_count"`
	SentenceCount int `json:"sentence_count"`
}

// Analyze derives word, character and sentence counts from text.
//
// A word is any maximal run of letters, digits or underscores. Characters are
// counted as code points, not bytes. Consecutive terminators such as "..." or
// "?!" close a single sentence.
func Analyze(text string) PostAnalysis {
	if text == "" {
		return PostAnalysis{}
	}
	return PostAnalysis{
		WordCount:     len(wordPattern.FindAllStringIndex(text, -1)),
		CharCount:     utf8.RuneCountInString(text),
		SentenceCount: len(sentencePattern.FindAllStringIndex(text, -1)),
	}
}

// Merge sums the metrics of several analyses.
func Merge(analyses ...PostAnalysis) PostAnalysis {
	var total PostAnalysis
	for _, a := range analyses {
		total.WordCount += a.WordCount
		total.CharCount += a.CharCount
		total.SentenceCount += a.SentenceCount
	}
	return total
}
