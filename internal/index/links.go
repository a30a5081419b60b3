package index

import (
	"net/url"
	"strings"
)

// Link is one index entry parsed back out of a managed section.
type Link struct {
	Text string // display title
	Href string // raw (still escaped) link target
}

// RelPath returns the unescaped root-relative path of the link
// target. Invalid escapes fall back to the raw href.
func (l Link) RelPath() string {
	segments := strings.Split(l.Href, "/")
	for i, segment := range segments {
		unescaped, err := url.PathUnescape(segment)
		if err != nil {
			return l.Href
		}

		segments[i] = unescaped
	}

	return strings.Join(segments, "/")
}

// ManagedSection extracts the current managed section text from a
// README, using the same boundaries Splice uses for replacement.
func ManagedSection(readme []byte, section string) (string, bool) {
	_, prior, found := Splice(readme, section, section+"\n")

	return prior, found
}

// ParseLinks reads the list items of a managed section back into
// links. Only "*   [text](href)" lines are considered; anything else
// in the section is ignored.
func ParseLinks(sectionText string) []Link {
	var links []Link

	for _, line := range strings.SplitAfter(sectionText, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "*") {
			continue
		}

		item := strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
		if !strings.HasPrefix(item, "[") {
			continue
		}

		text, rest, ok := strings.Cut(item[1:], "](")
		if !ok {
			continue
		}

		href, _, ok := strings.Cut(rest, ")")
		if !ok {
			continue
		}

		links = append(links, Link{Text: text, Href: href})
	}

	return links
}
