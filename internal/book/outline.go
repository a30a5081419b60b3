package book

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutlineEntry is one (chapter, topics) pair from an outline file.
type OutlineEntry struct {
	Chapter string   `yaml:"chapter"`
	Topics  []string `yaml:"topics"`
}

var (
	errOutlineEmpty   = errors.New("outline is empty")
	errChapterMissing = errors.New("outline entry missing chapter title")
)

// ParseOutline decodes a YAML outline:
//
//	- chapter: Frontend Security
//	  topics:
//	    - Cross-Site Scripting (XSS)
//	    - Cross-Site Request Forgery (CSRF)
//
// Entries without a chapter title are rejected up front; topic-level
// problems surface later, per entry, during Apply.
func ParseOutline(data []byte) ([]OutlineEntry, error) {
	var entries []OutlineEntry

	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}

	if len(entries) == 0 {
		return nil, errOutlineEmpty
	}

	for i, entry := range entries {
		if entry.Chapter == "" {
			return nil, fmt.Errorf("%w (entry %d)", errChapterMissing, i+1)
		}
	}

	return entries, nil
}

// OutlineResult reports what a batch apply did.
type OutlineResult struct {
	Created []string // topic paths relative to the content root
	Failed  []string // "<chapter>/<topic>: <reason>" per failed item
}

// ApplyOutline creates every chapter and topic skeleton in the
// outline. Failures are local to the single item being processed:
// the batch continues and the result carries a summary of failures
// instead of aborting on the first one.
func ApplyOutline(cfg Config, entries []OutlineEntry) OutlineResult {
	var result OutlineResult

	for _, entry := range entries {
		if len(entry.Topics) == 0 {
			// A chapter with no topics still gets its directory; it
			// stays out of the index until a topic lands in it.
			if _, err := CreateChapter(cfg, entry.Chapter, false); err != nil {
				result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", entry.Chapter, err))
			}

			continue
		}

		for _, topic := range entry.Topics {
			relPath, err := CreateTopic(cfg, entry.Chapter, topic)
			if err != nil {
				result.Failed = append(result.Failed, fmt.Sprintf("%s / %s: %v", entry.Chapter, topic, err))

				continue
			}

			result.Created = append(result.Created, relPath)
		}
	}

	return result
}
