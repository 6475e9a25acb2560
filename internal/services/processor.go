package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type TextProcessor interface {
	Normalize(text string) string
	CleanCVText(text string) string
	CleanJobText(text string) string
}

type textProcessor struct{}

func NewTextProcessor() TextProcessor {
	return &textProcessor{}
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Common CV headers and footers.
	cvBoilerplateRe = regexp.MustCompile(`(?i)curriculum\s*vitae|cv|resume`)
	pageNumberRe    = regexp.MustCompile(`\b\d+\s*/\s*\d+\b`)

	// Generic recruiting phrases that carry no signal about the position.
	jobBoilerplateRe = regexp.MustCompile(`(?i)we\s+are\s+looking\s+for|our\s+company|our\s+client|nous\s*recherchons|notre\s*entreprise|notre\s*client`)

	// NFKD decomposition followed by removal of combining marks, so accented
	// and unaccented forms compare equal.
	accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize lowercases, strips diacritics, replaces punctuation with spaces
// and collapses whitespace. Empty input yields an empty string.
func (p *textProcessor) Normalize(text string) string {
	text = strings.ToLower(text)

	if stripped, _, err := transform.String(accentStripper, text); err == nil {
		text = stripped
	}

	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// CleanCVText prepares a CV for encoding: boilerplate tokens and page
// numbers are dropped before generic normalization. Stopwords are kept on
// purpose; phrases like "experienced in" or "graduate of" carry meaning for
// the semantic match.
func (p *textProcessor) CleanCVText(text string) string {
	text = cvBoilerplateRe.ReplaceAllString(text, "")
	text = pageNumberRe.ReplaceAllString(text, "")

	return p.Normalize(text)
}

// CleanJobText prepares a job offer for encoding. Stopwords are kept here
// as well.
func (p *textProcessor) CleanJobText(text string) string {
	text = jobBoilerplateRe.ReplaceAllString(text, "")

	return p.Normalize(text)
}
