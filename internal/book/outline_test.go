package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const securityOutline = `
- chapter: Frontend Security
  topics:
    - Cross-Site Scripting (XSS)
    - Cross-Site Request Forgery (CSRF)
- chapter: Architecture
`

func TestParseOutline(t *testing.T) {
	t.Parallel()

	entries, err := ParseOutline([]byte(securityOutline))
	if err != nil {
		t.Fatalf("ParseOutline: %v", err)
	}

	want := []OutlineEntry{
		{
			Chapter: "Frontend Security",
			Topics:  []string{"Cross-Site Scripting (XSS)", "Cross-Site Request Forgery (CSRF)"},
		},
		{Chapter: "Architecture"},
	}

	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ParseOutline mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOutlineRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not yaml", data: "{{{"},
		{name: "missing chapter", data: "- topics:\n    - Orphan\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseOutline([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestApplyOutline(t *testing.T) {
	t.Parallel()

	cfg := scanFixture(t)

	entries, err := ParseOutline([]byte(securityOutline))
	if err != nil {
		t.Fatalf("ParseOutline: %v", err)
	}

	result := ApplyOutline(cfg, entries)

	wantCreated := []string{
		"Frontend-Security/Cross-Site-Scripting-XSS.md",
		"Frontend-Security/Cross-Site-Request-Forgery-CSRF.md",
	}

	if diff := cmp.Diff(wantCreated, result.Created); diff != "" {
		t.Errorf("Created mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failed) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failed)
	}

	// Topic-less chapter gets its directory but stays out of the index.
	info, statErr := os.Stat(filepath.Join(cfg.RootAbs, "Architecture"))
	if statErr != nil || !info.IsDir() {
		t.Fatalf("Architecture directory not created: %v", statErr)
	}

	content := readFileT(t, filepath.Join(cfg.RootAbs, "Frontend-Security", "Cross-Site-Scripting-XSS.md"))

	if !strings.Contains(content, "title: Cross-Site Scripting (XSS)") {
		t.Errorf("skeleton missing frontmatter title:\n%s", content)
	}

	if !strings.Contains(content, "# Cross-Site Scripting (XSS)") {
		t.Errorf("skeleton missing H1:\n%s", content)
	}
}

func TestApplyOutlineContinuesPastFailures(t *testing.T) {
	t.Parallel()

	cfg := scanFixture(t)

	entries := []OutlineEntry{
		{Chapter: "Chapter", Topics: []string{"???", "Good Topic"}},
		{Chapter: "Chapter", Topics: []string{"Good Topic"}}, // duplicate of an existing file
	}

	result := ApplyOutline(cfg, entries)

	if len(result.Created) != 1 || result.Created[0] != "Chapter/Good-Topic.md" {
		t.Errorf("Created = %v", result.Created)
	}

	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %v", result.Failed)
	}

	if !strings.Contains(result.Failed[0], "???") {
		t.Errorf("first failure should name the bad title: %q", result.Failed[0])
	}

	if !strings.Contains(result.Failed[1], "already exists") {
		t.Errorf("second failure should report the existing file: %q", result.Failed[1])
	}
}
