package book

import (
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "single word", title: "Performance", want: "Performance"},
		{name: "two words", title: "Performance Optimization", want: "Performance-Optimization"},
		{name: "parenthesized acronym", title: "Cross-Site Scripting (XSS)", want: "Cross-Site-Scripting-XSS"},
		{name: "csrf", title: "Cross-Site Request Forgery (CSRF)", want: "Cross-Site-Request-Forgery-CSRF"},
		{name: "surrounding whitespace", title: "  Web Vitals  ", want: "Web-Vitals"},
		{name: "whitespace run", title: "REST   vs    GraphQL", want: "REST-vs-GraphQL"},
		{name: "tabs and newlines", title: "Tree\tShaking\nBasics", want: "Tree-Shaking-Basics"},
		{name: "path separators stripped", title: "a/b\\c", want: "abc"},
		{name: "punctuation stripped", title: "State: Management?", want: "State-Management"},
		{name: "underscore kept", title: "snake_case title", want: "snake_case-title"},
		{name: "digits kept", title: "HTTP 2 Push", want: "HTTP-2-Push"},
		{name: "unicode letters kept", title: "Diseño de Componentes", want: "Diseño-de-Componentes"},
		{name: "existing hyphens collapse with spaces", title: "Container - Presentational", want: "Container-Presentational"},
		{name: "leading punctuation trimmed", title: "(Draft) Atomic Design", want: "Draft-Atomic-Design"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Slugify(tt.title)
			if err != nil {
				t.Fatalf("Slugify(%q) returned error: %v", tt.title, err)
			}

			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}

			// Slugs must be idempotent so re-running generation never
			// creates a second directory for the same chapter.
			again, err := Slugify(got)
			if err != nil {
				t.Fatalf("Slugify(%q) returned error: %v", got, err)
			}

			if again != got {
				t.Errorf("Slugify not idempotent: %q -> %q", got, again)
			}

			if strings.ContainsAny(got, " \t\n/\\:*?\"<>|") {
				t.Errorf("slug %q contains unsafe characters", got)
			}
		})
	}
}

func TestSlugifyInvalidTitle(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"", "   ", "()", "???", "\t\n"} {
		_, err := Slugify(title)
		if !errors.Is(err, ErrInvalidTitle) {
			t.Errorf("Slugify(%q) error = %v, want ErrInvalidTitle", title, err)
		}
	}
}

func TestDeslug(t *testing.T) {
	t.Parallel()

	if got := Deslug("Frontend-Security"); got != "Frontend Security" {
		t.Errorf("Deslug = %q, want %q", got, "Frontend Security")
	}
}
