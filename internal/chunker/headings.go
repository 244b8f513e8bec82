package chunker

import (
	"strings"
	"unicode"
)

// section is a heading-delimited region of the input text.
type section struct {
	heading string
	body    string
}

const (
	maxHeadingLen      = 80
	maxColonHeadingLen = 60
)

// detectSections splits text into sections at heading boundaries.
// Recognised headings: markdown # markers, ALL-CAPS lines, short
// colon-terminated lines and underlined headings. Text with no detected
// headings becomes a single section with an empty heading.
func detectSections(text string) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var heading string
	var body []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if content != "" || heading != "" {
			sections = append(sections, section{heading: heading, body: content})
		}
		body = nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if h, ok := markdownHeading(line); ok {
			flush()
			heading = h
			continue
		}
		if isUnderlined(line, lines, i) {
			flush()
			heading = line
			i++ // consume the underline
			continue
		}
		if isAllCapsHeading(line) {
			flush()
			heading = line
			continue
		}
		if isColonHeading(line) {
			flush()
			heading = strings.TrimSuffix(line, ":")
			continue
		}

		body = append(body, lines[i])
	}
	flush()

	if len(sections) == 0 {
		return []section{{body: strings.TrimSpace(text)}}
	}
	return sections
}

// markdownHeading matches "# Title" through "###### Title".
func markdownHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level == len(line) || line[level] != ' ' {
		return "", false
	}
	return strings.TrimSpace(line[level:]), true
}

// isAllCapsHeading matches short lines whose letters are all uppercase,
// e.g. "EXECUTIVE SUMMARY".
func isAllCapsHeading(line string) bool {
	if len(line) < 4 || len(line) > maxHeadingLen {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isColonHeading matches short single-clause lines ending with a colon,
// e.g. "Key terms:".
func isColonHeading(line string) bool {
	if len(line) < 3 || len(line) > maxColonHeadingLen {
		return false
	}
	if !strings.HasSuffix(line, ":") {
		return false
	}
	// A colon mid-line means the line is prose, not a heading.
	return strings.Count(line, ":") == 1
}

// isUnderlined matches setext-style headings where the following line
// is a run of = or - characters.
func isUnderlined(line string, lines []string, i int) bool {
	if line == "" || len(line) > maxHeadingLen || i+1 >= len(lines) {
		return false
	}
	under := strings.TrimSpace(lines[i+1])
	if len(under) < 3 {
		return false
	}
	ch := under[0]
	if ch != '=' && ch != '-' {
		return false
	}
	for j := 0; j < len(under); j++ {
		if under[j] != ch {
			return false
		}
	}
	return true
}
