package book

import "errors"

// Reserved root-level files that are never scanned as content.
const (
	DefaultReadmeName = "README.md"
	ConfigFileName    = ".shelf.json"
)

// Error variables for book operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrRootEmpty          = errors.New("root cannot be empty")
	ErrReadmeEmpty        = errors.New("readme cannot be empty")
	ErrInvalidSort        = errors.New("sort must be \"lexical\" or \"title\"")
	ErrInvalidTitle       = errors.New("title is empty after sanitization")
	ErrChapterExists      = errors.New("chapter already exists")
	ErrTopicExists        = errors.New("topic file already exists")
	ErrNotADirectory      = errors.New("path exists but is not a directory")
)
