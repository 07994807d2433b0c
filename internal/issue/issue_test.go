// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(ScriptFailedId) {
		t.Fatalf("catalog has %d entries, want %d", len(values), ScriptFailedId)
	}
	for i, is := range values {
		if is.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, is.Id(), i+1)
		}
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no guidance", is.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(ModuleLoadFailedId) == nil {
		t.Fatal("Get(ModuleLoadFailedId) returned nil")
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestIssue_DocLinksAreCopied(t *testing.T) {
	t.Parallel()

	is := &Issue{id: ScriptFailedId, docLinks: []HttpLink{"https://example.com/a"}}
	links := is.DocLinks()
	links[0] = "mutated"
	if is.DocLinks()[0] != "https://example.com/a" {
		t.Error("DocLinks() exposed internal slice")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(ConfigLoadFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Failed to load configuration") {
		t.Errorf("rendered output missing title:\n%s", out)
	}
}
