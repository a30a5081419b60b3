package book

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const (
	dirPerms = 0o750
)

// CreateChapter sanitizes the title and creates the chapter directory
// under the content root. Creating an already-existing chapter is an
// error for the direct command but tolerated by outline intake, so
// the caller chooses via mustNotExist.
func CreateChapter(cfg Config, title string, mustNotExist bool) (string, error) {
	slug, err := Slugify(title)
	if err != nil {
		return "", fmt.Errorf("chapter %q: %w", title, err)
	}

	dir := filepath.Join(cfg.RootAbs, slug)

	info, statErr := os.Stat(dir)
	if statErr == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNotADirectory, slug)
		}

		if mustNotExist {
			return "", fmt.Errorf("%w: %s", ErrChapterExists, slug)
		}

		return slug, nil
	}

	if mkdirErr := os.MkdirAll(dir, dirPerms); mkdirErr != nil {
		return "", fmt.Errorf("creating chapter %s: %w", slug, mkdirErr)
	}

	return slug, nil
}

// CreateTopic sanitizes both titles, creates the chapter directory if
// missing, and writes a skeleton topic document atomically. The
// skeleton carries the original title in frontmatter and as the H1,
// so the index can recover punctuation the slug drops. Refuses to
// overwrite an existing topic file.
//
// Returns the topic path relative to the content root.
func CreateTopic(cfg Config, chapterTitle, topicTitle string) (string, error) {
	chapterSlug, err := CreateChapter(cfg, chapterTitle, false)
	if err != nil {
		return "", err
	}

	topicSlug, err := Slugify(topicTitle)
	if err != nil {
		return "", fmt.Errorf("topic %q: %w", topicTitle, err)
	}

	relPath := chapterSlug + "/" + topicSlug + ".md"
	absPath := filepath.Join(cfg.RootAbs, chapterSlug, topicSlug+".md")

	if _, statErr := os.Stat(absPath); statErr == nil {
		return "", fmt.Errorf("%w: %s", ErrTopicExists, relPath)
	}

	skeleton, err := TopicSkeleton(strings.TrimSpace(topicTitle))
	if err != nil {
		return "", err
	}

	if writeErr := atomic.WriteFile(absPath, bytes.NewReader(skeleton)); writeErr != nil {
		return "", fmt.Errorf("writing topic %s: %w", relPath, writeErr)
	}

	return relPath, nil
}

// TopicSkeleton renders the initial body of a topic document: a YAML
// frontmatter block holding the display title, then the H1. The
// frontmatter is produced by the yaml encoder so titles containing
// colons or quotes stay parseable.
func TopicSkeleton(title string) ([]byte, error) {
	fm, err := yaml.Marshal(struct {
		Title string `yaml:"title"`
	}{Title: title})
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var builder bytes.Buffer

	builder.WriteString("---\n")
	builder.Write(fm)
	builder.WriteString("---\n\n")
	builder.WriteString("# " + title + "\n")

	return builder.Bytes(), nil
}
