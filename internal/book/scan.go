package book

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"shelf/internal/markdown"
)

// Topic is one markdown document inside a chapter directory.
type Topic struct {
	Title       string // display title (frontmatter, first H1, or de-slugged stem)
	File        string // file name within the chapter directory
	RelPath     string // path relative to the content root, forward slashes
	DuplicateH1 bool   // more than one top-level heading in the file
}

// Chapter is a directory of topics under the content root.
type Chapter struct {
	Title  string // de-slugged directory name
	Dir    string // directory name
	Topics []Topic
}

// ScanResult is the authoritative view of the content tree. The
// README index is a pure projection of it.
type ScanResult struct {
	Chapters []Chapter

	// Warnings holds per-file problems (unreadable files, duplicated
	// top-level headings). The scan never aborts on them.
	Warnings []string
}

// reservedNames are root-level files that are workflow inputs, not
// content.
var reservedNames = []string{
	"agent-reference.md",
	"reference.md",
	ConfigFileName,
}

// Scan walks the content root and collects chapters with their
// topics, ordered by the configured comparator. Chapter directories
// with zero markdown topics are omitted. Dot entries and reserved
// names are skipped.
func Scan(cfg Config) (ScanResult, error) {
	entries, err := os.ReadDir(cfg.RootAbs)
	if err != nil {
		return ScanResult{}, fmt.Errorf("reading content root: %w", err)
	}

	excluded := excludeSet(cfg)

	var result ScanResult

	for _, entry := range entries {
		name := entry.Name()

		if !entry.IsDir() || strings.HasPrefix(name, ".") || excluded[name] {
			continue
		}

		chapter, warnings := scanChapter(cfg.RootAbs, name)
		result.Warnings = append(result.Warnings, warnings...)

		if len(chapter.Topics) == 0 {
			continue
		}

		result.Chapters = append(result.Chapters, chapter)
	}

	sortChapters(result.Chapters, cfg.Sort)

	return result, nil
}

func excludeSet(cfg Config) map[string]bool {
	excluded := make(map[string]bool, len(reservedNames)+len(cfg.Exclude)+1)

	excluded[cfg.Readme] = true

	for _, name := range reservedNames {
		excluded[name] = true
	}

	for _, name := range cfg.Exclude {
		excluded[name] = true
	}

	return excluded
}

func scanChapter(rootAbs, dir string) (Chapter, []string) {
	chapter := Chapter{
		Title: Deslug(dir),
		Dir:   dir,
	}

	entries, err := os.ReadDir(filepath.Join(rootAbs, dir))
	if err != nil {
		return chapter, []string{fmt.Sprintf("%s: %v", dir, err)}
	}

	var warnings []string

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}

		topic, warning := readTopic(rootAbs, dir, name)
		if warning != "" {
			warnings = append(warnings, warning)
		}

		chapter.Topics = append(chapter.Topics, topic)
	}

	return chapter, warnings
}

// readTopic builds a Topic for one markdown file. An unreadable file
// still gets an entry (title from the filename) plus a warning, so
// the index never silently drops a document that exists on disk.
func readTopic(rootAbs, dir, name string) (Topic, string) {
	topic := Topic{
		File:    name,
		RelPath: dir + "/" + name,
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))

	content, err := os.ReadFile(filepath.Join(rootAbs, dir, name))
	if err != nil {
		topic.Title = Deslug(stem)

		return topic, fmt.Sprintf("%s: %v", topic.RelPath, err)
	}

	doc := markdown.Read(content)

	topic.Title = doc.Title()
	if topic.Title == "" {
		topic.Title = Deslug(stem)
	}

	topic.DuplicateH1 = doc.HasDuplicateH1()

	warning := ""
	if topic.DuplicateH1 {
		warning = fmt.Sprintf("%s: multiple top-level headings (%d)", topic.RelPath, len(doc.H1))
	}

	return topic, warning
}

func sortChapters(chapters []Chapter, order string) {
	byName := func(a, b string) int {
		return strings.Compare(a, b)
	}

	if order == SortTitle {
		byName = func(a, b string) int {
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		}
	}

	key := func(c Chapter) string {
		if order == SortTitle {
			return c.Title
		}

		return c.Dir
	}

	topicKey := func(t Topic) string {
		if order == SortTitle {
			return t.Title
		}

		return t.File
	}

	slices.SortStableFunc(chapters, func(a, b Chapter) int {
		return byName(key(a), key(b))
	})

	for i := range chapters {
		slices.SortStableFunc(chapters[i].Topics, func(a, b Topic) int {
			return byName(topicKey(a), topicKey(b))
		})
	}
}
