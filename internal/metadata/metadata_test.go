// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"slices"
	"strings"
	"testing"
)

const noteDocs = `Uploads a note

    # Author: Jane Doe
    # Version: 1.2.0
    # Website: https://example.com/note
    # License: MIT
    # Tags: notes, upload ,  ,core

    # Short Help:
    Uploads a note from stdin

    # Description:
    Reads stdin and uploads the content
    as a note to the active project.

    # Arguments:
    --file  read from a file instead
`

func TestParse_AllFields(t *testing.T) {
	t.Parallel()

	docs := Parse(noteDocs)

	if docs.Author != "Jane Doe" {
		t.Errorf("Author = %q, want %q", docs.Author, "Jane Doe")
	}
	if docs.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", docs.Version, "1.2.0")
	}
	if docs.Website != "https://example.com/note" {
		t.Errorf("Website = %q", docs.Website)
	}
	if docs.License != "MIT" {
		t.Errorf("License = %q, want MIT", docs.License)
	}
	wantTags := []string{"notes", "upload", "core"}
	if !slices.Equal(docs.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", docs.Tags, wantTags)
	}
	if docs.ShortHelp != "Uploads a note from stdin" {
		t.Errorf("ShortHelp = %q", docs.ShortHelp)
	}
	wantDesc := "Reads stdin and uploads the content\nas a note to the active project."
	if docs.Description != wantDesc {
		t.Errorf("Description = %q, want %q", docs.Description, wantDesc)
	}
	if !strings.HasPrefix(docs.Text, "Uploads a note\n\n# Author: Jane Doe") {
		t.Errorf("Text not dedented: %q", docs.Text)
	}
}

func TestParse_EmptyBlock(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "\n\n\t\n"} {
		docs := Parse(raw)
		if docs.Author != "" || docs.Version != "" || docs.Website != "" || docs.License != "" {
			t.Errorf("Parse(%q) single-line fields not empty: %+v", raw, docs)
		}
		if docs.Tags != nil {
			t.Errorf("Parse(%q).Tags = %v, want nil", raw, docs.Tags)
		}
		if docs.ShortHelp != "" || docs.Description != "" || docs.Text != "" {
			t.Errorf("Parse(%q) text fields not empty: %+v", raw, docs)
		}
		if docs.Summary() != "" {
			t.Errorf("Parse(%q).Summary() = %q, want empty", raw, docs.Summary())
		}
	}
}

func TestParse_MissingFields(t *testing.T) {
	t.Parallel()

	docs := Parse("Just a one line description")

	if docs.Author != "" {
		t.Errorf("Author = %q, want empty", docs.Author)
	}
	if docs.Tags != nil {
		t.Errorf("Tags = %v, want nil", docs.Tags)
	}
	if docs.ShortHelp != "" {
		t.Errorf("ShortHelp = %q, want empty", docs.ShortHelp)
	}
	if got := docs.Summary(); got != "Just a one line description" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestParse_AmbiguousSectionsAreSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Docs
	}{
		{
			name: "field marker without value",
			raw:  "Tool\nAuthor:\nVersion: \nTags:",
			want: Docs{},
		},
		{
			name: "short help followed by another marker",
			raw:  "Tool\n# Short Help:\n\n# Description:\nreal description",
			want: Docs{Description: "real description"},
		},
		{
			name: "short help at end of block",
			raw:  "Tool\n# Short Help:",
			want: Docs{},
		},
		{
			name: "empty description section",
			raw:  "Tool\n# Description:\n\n# Arguments:\n-x",
			want: Docs{},
		},
		{
			name: "inline short help is not a marker",
			raw:  "Tool\nShort Help: inline text",
			want: Docs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.raw)
			if got.Author != tt.want.Author || got.Version != tt.want.Version {
				t.Errorf("Author/Version = %q/%q, want %q/%q", got.Author, got.Version, tt.want.Author, tt.want.Version)
			}
			if len(got.Tags) != 0 {
				t.Errorf("Tags = %v, want none", got.Tags)
			}
			if got.ShortHelp != tt.want.ShortHelp {
				t.Errorf("ShortHelp = %q, want %q", got.ShortHelp, tt.want.ShortHelp)
			}
			if got.Description != tt.want.Description {
				t.Errorf("Description = %q, want %q", got.Description, tt.want.Description)
			}
		})
	}
}

func TestParse_DescriptionLineLimit(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("Tool\nDescription:\n")
	for i := range 15 {
		sb.WriteString("line ")
		sb.WriteByte(byte('a' + i))
		sb.WriteString("\n")
	}

	docs := Parse(sb.String())
	lines := strings.Split(docs.Description, "\n")
	if len(lines) != MaxDescriptionLines {
		t.Fatalf("description has %d lines, want %d", len(lines), MaxDescriptionLines)
	}
	if lines[len(lines)-1] != "line j" {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], "line j")
	}
}

func TestParse_DescriptionKeepsUnknownHeadings(t *testing.T) {
	t.Parallel()

	raw := "Tool\n# Description:\nUploads notes.\n\nExamples:\n  reptor note < file\nUsage:\n  pipe text in\n# Author: Jane\nlater"
	want := "Uploads notes.\n\nExamples:\n  reptor note < file\nUsage:\n  pipe text in"

	docs := Parse(raw)
	if docs.Description != want {
		t.Errorf("Description = %q, want %q", docs.Description, want)
	}
	if docs.Author != "Jane" {
		t.Errorf("Author = %q, want Jane", docs.Author)
	}
}

func TestParse_FirstMatchWins(t *testing.T) {
	t.Parallel()

	docs := Parse("Tool\nAuthor: First\nAuthor: Second")
	if docs.Author != "First" {
		t.Errorf("Author = %q, want First", docs.Author)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "single line", raw: "  hello  ", want: "hello"},
		{name: "leading newline", raw: "\n    a\n      b\n", want: "a\n  b"},
		{name: "first line kept", raw: "head\n    a\n    b", want: "head\na\nb"},
		{name: "crlf", raw: "head\r\n  a\r\n", want: "head\na"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDocs_SummarySkipsMarkers(t *testing.T) {
	t.Parallel()

	docs := Parse("\n    # Description:\n    body text\n")
	if got := docs.Summary(); got != "body text" {
		t.Errorf("Summary() = %q, want %q", got, "body text")
	}
}
