// Package index renders the managed "Chapters and Topics" section of
// the README and splices it into the file without touching the
// surrounding hand-written prose. The disk scan is authoritative: the
// README section is a regenerated projection, never merged.
package index

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"shelf/internal/book"
)

// Render produces the managed section: the section heading, then per
// chapter an H3 and one list item per topic. Link text is the display
// title; the href is the URL-path-escaped relative path.
func Render(section string, chapters []book.Chapter) string {
	var builder strings.Builder

	builder.WriteString(section + "\n")

	for _, chapter := range chapters {
		builder.WriteString("\n### " + chapter.Title + "\n\n")

		for _, topic := range chapter.Topics {
			builder.WriteString("*   [" + topic.Title + "](" + EscapeHref(topic.RelPath) + ")\n")
		}
	}

	return builder.String()
}

// EscapeHref URL-encodes each segment of a root-relative path while
// keeping the separators.
func EscapeHref(relPath string) string {
	segments := strings.Split(relPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}

// Splice replaces the managed section of readme with rendered. The
// section spans from the line equal to the section heading up to (not
// including) the next "## " heading or EOF. Returns the new file
// content and the prior section text (empty when the heading was not
// found, in which case the section is appended at the end).
func Splice(readme []byte, section string, rendered string) (out []byte, prior string, found bool) {
	lines := strings.SplitAfter(string(readme), "\n")

	start := -1

	for i, line := range lines {
		if strings.TrimRight(line, "\r\n") == section {
			start = i

			break
		}
	}

	if start == -1 {
		var builder strings.Builder

		builder.Write(readme)

		if len(readme) > 0 && !bytes.HasSuffix(readme, []byte("\n")) {
			builder.WriteString("\n")
		}

		if len(readme) > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(rendered)

		return []byte(builder.String()), "", false
	}

	end := len(lines)

	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], "\r\n")
		if strings.HasPrefix(trimmed, "## ") && !strings.HasPrefix(trimmed, "###") {
			end = i

			break
		}
	}

	prior = strings.Join(lines[start:end], "")

	var builder strings.Builder

	builder.WriteString(strings.Join(lines[:start], ""))
	builder.WriteString(rendered)

	if end < len(lines) {
		// Keep one blank line between the managed section and the
		// following heading.
		builder.WriteString("\n")
		builder.WriteString(strings.Join(lines[end:], ""))
	}

	return []byte(builder.String()), prior, true
}

// Outcome reports what Sync did.
type Outcome struct {
	Wrote   bool     // README content changed and was rewritten
	Created bool     // README did not exist and was created
	Drift   bool     // prior managed section carried entries the disk scan disowns
	Dropped []string // link targets discarded from the prior section
}

// Sync regenerates the managed README section from the scan and
// writes the file atomically (temp file then rename), so a crash
// mid-write never leaves a truncated README. Running Sync twice with
// no filesystem changes in between is a no-op the second time.
func Sync(cfg book.Config, scan book.ScanResult) (Outcome, error) {
	var outcome Outcome

	current, err := os.ReadFile(cfg.ReadmeAbs)
	if err != nil {
		if !os.IsNotExist(err) {
			return outcome, fmt.Errorf("reading %s: %w", cfg.Readme, err)
		}

		outcome.Created = true
		current = []byte(defaultPreamble(cfg))
	}

	rendered := Render(cfg.Section, scan.Chapters)

	next, prior, found := Splice(current, cfg.Section, rendered)

	// New topics appearing on disk is normal forward progress, not
	// drift. Drift is prior entries the scan cannot reproduce - hand
	// edits that are about to be discarded.
	if found {
		outcome.Dropped = droppedLinks(prior, rendered)
		outcome.Drift = len(outcome.Dropped) > 0
	}

	if bytes.Equal(next, current) && !outcome.Created {
		return outcome, nil
	}

	if writeErr := atomic.WriteFile(cfg.ReadmeAbs, bytes.NewReader(next)); writeErr != nil {
		return outcome, fmt.Errorf("writing %s: %w", cfg.Readme, writeErr)
	}

	outcome.Wrote = true

	return outcome, nil
}

// Check renders the managed section and reports whether the README on
// disk already matches it, without writing anything.
func Check(cfg book.Config, scan book.ScanResult) (upToDate bool, err error) {
	current, err := os.ReadFile(cfg.ReadmeAbs)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("reading %s: %w", cfg.Readme, err)
	}

	rendered := Render(cfg.Section, scan.Chapters)

	next, _, _ := Splice(current, cfg.Section, rendered)

	return bytes.Equal(next, current), nil
}

// droppedLinks lists link targets present in the prior section but
// absent from the regenerated one.
func droppedLinks(prior, rendered string) []string {
	kept := make(map[string]bool)

	for _, link := range ParseLinks(rendered) {
		kept[link.RelPath()] = true
	}

	var dropped []string

	for _, link := range ParseLinks(prior) {
		if !kept[link.RelPath()] {
			dropped = append(dropped, link.RelPath())
		}
	}

	return dropped
}

func defaultPreamble(cfg book.Config) string {
	title := book.Deslug(filepath.Base(cfg.RootAbs))

	return "# " + title + "\n"
}
