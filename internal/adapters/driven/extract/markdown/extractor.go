// Package markdown provides a text extraction adapter for Markdown
// files. Presentation markup is stripped while headings survive, so
// downstream section detection still sees the document structure.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/dealsense/ragengine/internal/adapters/driven/extract/plaintext"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads Markdown files and strips formatting noise.
type Extractor struct {
	files *plaintext.Extractor
}

// New creates a Markdown extractor.
func New() *Extractor {
	return &Extractor{files: plaintext.New()}
}

// Extract returns the file's text with presentation markup removed.
// Heading markers are kept.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	text, err := e.files.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	return stripFormatting(text), nil
}

var (
	codeBlockPattern    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodePattern   = regexp.MustCompile("`([^`]+)`")
	imagePattern        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkPattern         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	blockquotePattern   = regexp.MustCompile(`(?m)^>\s*`)
	hrPattern           = regexp.MustCompile(`^[-*]{3,}\s*$`)
	listMarkerPattern   = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	emphasisPattern     = regexp.MustCompile(`(\*\*|__|\*)([^*_]+)(\*\*|__|\*)`)
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// stripFormatting removes markup that carries no retrieval signal.
// Heading markers and paragraph breaks are deliberately preserved.
func stripFormatting(content string) string {
	content = codeBlockPattern.ReplaceAllString(content, "")
	content = inlineCodePattern.ReplaceAllString(content, "$1")
	content = imagePattern.ReplaceAllString(content, "")
	content = linkPattern.ReplaceAllString(content, "$1")
	content = blockquotePattern.ReplaceAllString(content, "")
	content = stripThematicBreaks(content)
	content = listMarkerPattern.ReplaceAllString(content, "$1")
	content = emphasisPattern.ReplaceAllString(content, "$2")
	content = multiNewlinePattern.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// stripThematicBreaks drops horizontal rules. A dash line directly
// under text is a setext heading underline, not a rule, and must
// survive for section detection.
func stripThematicBreaks(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	prevBlank := true
	for _, line := range lines {
		if prevBlank && hrPattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
		prevBlank = strings.TrimSpace(line) == ""
	}
	return strings.Join(kept, "\n")
}
