package book

import (
	"strings"
	"unicode"
)

// Slugify converts a human-readable title into a filesystem-safe slug:
// whitespace runs become a single hyphen, Unicode letters and digits
// are kept as-is (case preserved), hyphens and underscores survive,
// and everything else is dropped. The function is pure and idempotent,
// so re-running content generation for the same title always targets
// the same path.
//
// Returns ErrInvalidTitle when nothing remains after sanitization.
func Slugify(title string) (string, error) {
	var builder strings.Builder

	lastHyphen := false

	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				builder.WriteRune('-')

				lastHyphen = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			builder.WriteRune(r)

			lastHyphen = false
		default:
			// Path-illegal or punctuation character: dropped.
		}
	}

	slug := strings.Trim(builder.String(), "-")
	if slug == "" {
		return "", ErrInvalidTitle
	}

	return slug, nil
}

// Deslug recovers a display title from a slug by turning hyphens back
// into spaces. Punctuation removed by Slugify is gone for good, which
// is why topic titles are read from the document itself and Deslug is
// only the fallback (and the rule for chapter directories).
func Deslug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
