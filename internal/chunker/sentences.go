package chunker

import (
	"regexp"
	"strings"
)

// protectedDot temporarily stands in for periods that must not end a
// sentence. U+E000 is a private-use rune that cannot occur in input.
const protectedDot = ''

// abbreviations whose trailing period never terminates a sentence.
var abbreviations = []string{
	"Mr", "Mrs", "Ms", "Dr", "Prof", "Rev", "Hon", "St", "Sr", "Jr",
	"e.g", "i.e", "etc", "vs", "cf", "al", "approx", "dept", "est",
	"Inc", "Ltd", "Corp", "Co", "No", "Fig",
}

var (
	abbrevPattern    *regexp.Regexp
	initialPattern   = regexp.MustCompile(`\b([A-Z])\.`)
	sentencePattern  = regexp.MustCompile(`([.!?]+)(\s+|$)`)
	paragraphPattern = regexp.MustCompile(`\n\s*\n`)
)

func init() {
	quoted := make([]string, len(abbreviations))
	for i, a := range abbreviations {
		quoted[i] = regexp.QuoteMeta(a)
	}
	abbrevPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\.`)
}

// splitSentences segments text into sentences. Periods following known
// abbreviations, "e.g."-style latinisms and single-letter initials are
// protected before segmenting and restored afterwards.
func splitSentences(text string) []string {
	protected := abbrevPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", string(protectedDot))
	})
	protected = initialPattern.ReplaceAllString(protected, "$1"+string(protectedDot))

	var sentences []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(protected, -1) {
		s := strings.TrimSpace(protected[last:loc[1]])
		if s != "" {
			sentences = append(sentences, restoreDots(s))
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(protected[last:]); s != "" {
		sentences = append(sentences, restoreDots(s))
	}
	return sentences
}

func restoreDots(s string) string {
	return strings.ReplaceAll(s, string(protectedDot), ".")
}

// splitParagraphs splits text at blank lines.
func splitParagraphs(text string) []string {
	raw := paragraphPattern.Split(text, -1)
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
