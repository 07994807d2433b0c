// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"regexp"
	"strings"

	"github.com/lithammer/dedent"
)

const (
	// MaxDescriptionLines bounds how many lines after a "Description:" marker
	// are collected.
	MaxDescriptionLines = 10

	markerShortHelp      = "Short Help"
	markerDescription    = "Description"
	markerArguments      = "Arguments"
	markerDeveloperNotes = "Developer Notes"
)

var (
	// sectionMarkerRe matches a line that only opens a section, e.g. "# Short Help:".
	sectionMarkerRe = regexp.MustCompile(`^[#*\-\s]*([A-Z][A-Za-z ]*[A-Za-z]):\s*$`)

	// sections are the marker names that open or close a section. Other
	// "Word:" lines, such as "Examples:", are ordinary text.
	sections = map[string]bool{
		markerShortHelp:      true,
		markerDescription:    true,
		markerArguments:      true,
		markerDeveloperNotes: true,
		"Author":             true,
		"Version":            true,
		"Website":            true,
		"License":            true,
		"Tags":               true,
	}

	authorRe  = fieldPattern("Author")
	versionRe = fieldPattern("Version")
	websiteRe = fieldPattern("Website")
	licenseRe = fieldPattern("License")
	tagsRe    = fieldPattern("Tags")
)

// Docs is the structured view of a documentation block.
// Absent fields keep their zero value.
type Docs struct {
	Author      string
	Version     string
	Website     string
	License     string
	Tags        []string
	ShortHelp   string
	Description string

	// Text is the cleaned (dedented, trimmed) documentation block.
	Text string
}

// fieldPattern builds a first-match, single-line extractor for "<name>: value".
// Markdown list and heading prefixes in front of the name are tolerated.
func fieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[#*\-\s]*` + regexp.QuoteMeta(name) + `:[ \t]+(\S.*?)\s*$`)
}

// Parse extracts Docs from raw documentation text.
func Parse(raw string) Docs {
	text := Clean(raw)
	docs := Docs{Text: text}
	if text == "" {
		return docs
	}

	docs.Author = firstMatch(authorRe, text)
	docs.Version = firstMatch(versionRe, text)
	docs.Website = firstMatch(websiteRe, text)
	docs.License = firstMatch(licenseRe, text)
	docs.Tags = splitTags(firstMatch(tagsRe, text))

	lines := strings.Split(text, "\n")
	docs.ShortHelp = shortHelp(lines)
	docs.Description = description(lines)

	return docs
}

// Summary returns the short help, falling back to the first line of prose in
// the cleaned documentation.
func (d Docs) Summary() string {
	if d.ShortHelp != "" {
		return d.ShortHelp
	}
	for line := range strings.SplitSeq(d.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isMarker(line) {
			continue
		}
		return line
	}
	return ""
}

// Clean normalizes a documentation block the way doc strings are usually
// written in source: the first line keeps its own text, the remaining lines lose
// their common indentation, and leading and trailing blank lines are dropped.
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\t", "    ")

	first, rest, found := strings.Cut(raw, "\n")
	var cleaned string
	switch {
	case !found:
		cleaned = strings.TrimSpace(first)
	case strings.TrimSpace(first) == "":
		cleaned = dedent.Dedent(rest)
	default:
		cleaned = strings.TrimSpace(first) + "\n" + dedent.Dedent(rest)
	}

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for tag := range strings.SplitSeq(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// markerName returns the section name if line is a bare known section marker.
func markerName(line string) (string, bool) {
	m := sectionMarkerRe.FindStringSubmatch(line)
	if m == nil || !sections[m[1]] {
		return "", false
	}
	return m[1], true
}

// isField reports whether line is a single-line field such as "Author: x".
func isField(line string) bool {
	for _, re := range []*regexp.Regexp{authorRe, versionRe, websiteRe, licenseRe, tagsRe} {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isMarker(line string) bool {
	_, ok := markerName(line)
	return ok
}

// markerIndex returns the index of the first line that opens the named section.
func markerIndex(lines []string, name string) int {
	for i, line := range lines {
		if got, ok := markerName(line); ok && got == name {
			return i
		}
	}
	return -1
}

// shortHelp returns the first non-empty line after the "Short Help:" marker.
// When that line is another section marker the section is empty and skipped.
func shortHelp(lines []string) string {
	idx := markerIndex(lines, markerShortHelp)
	if idx < 0 {
		return ""
	}
	for _, line := range lines[idx+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isMarker(line) {
			return ""
		}
		return line
	}
	return ""
}

// description collects up to MaxDescriptionLines lines after the
// "Description:" marker, stopping at the next known section marker or
// single-line field.
func description(lines []string) string {
	idx := markerIndex(lines, markerDescription)
	if idx < 0 {
		return ""
	}
	var body []string
	for _, line := range lines[idx+1:] {
		if len(body) == MaxDescriptionLines || isMarker(line) || isField(line) {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
