// Package markdown reads topic documents: it resolves display titles
// from frontmatter or the first H1 and detects structural problems
// like duplicated top-level headings.
package markdown

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// frontmatterDelimiter separates an optional YAML block at the top of
// a topic file.
var frontmatterDelimiter = []byte("---")

// parserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share — actual parsing creates per-call state via Parse(reader).
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New()
	})

	return parserInstance
}

// Doc is the result of reading a topic document.
type Doc struct {
	// FrontmatterTitle is the title: value from the YAML frontmatter
	// block, empty when absent.
	FrontmatterTitle string

	// H1 holds the text of every level-1 heading, in document order.
	// A well-formed topic has exactly one.
	H1 []string
}

// frontmatterFields is the subset of frontmatter keys the tool reads.
// Unknown keys are ignored so authors can carry their own metadata.
type frontmatterFields struct {
	Title string `yaml:"title"`
}

// Read parses a topic document body.
func Read(source []byte) Doc {
	var doc Doc

	fm, body := splitFrontmatter(source)

	if len(fm) > 0 {
		var fields frontmatterFields

		// Malformed frontmatter is treated as absent: the document
		// still indexes via its H1 or filename.
		if err := yaml.Unmarshal(fm, &fields); err == nil {
			doc.FrontmatterTitle = fields.Title
		}
	}

	reader := text.NewReader(body)
	root := getParser().Parser().Parse(reader)

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}

		doc.H1 = append(doc.H1, string(headingText(heading, body)))

		return ast.WalkSkipChildren, nil
	})

	return doc
}

// Title resolves the display title: frontmatter wins, then the first
// H1, then empty (caller falls back to the de-slugged filename).
func (d Doc) Title() string {
	if d.FrontmatterTitle != "" {
		return d.FrontmatterTitle
	}

	if len(d.H1) > 0 {
		return d.H1[0]
	}

	return ""
}

// HasDuplicateH1 reports whether the document contains more than one
// top-level heading, the signature of two articles pasted into one
// file.
func (d Doc) HasDuplicateH1() bool {
	return len(d.H1) > 1
}

// splitFrontmatter returns the YAML frontmatter block (without
// delimiters) and the remaining body. Input without a leading ---
// line is returned unchanged as body.
func splitFrontmatter(source []byte) (fm, body []byte) {
	if !bytes.HasPrefix(source, frontmatterDelimiter) {
		return nil, source
	}

	rest, ok := bytes.CutPrefix(source, frontmatterDelimiter)
	if !ok {
		return nil, source
	}

	// Delimiter must be the whole line.
	if len(rest) > 0 && rest[0] != '\n' && rest[0] != '\r' {
		return nil, source
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, source
	}

	fm = rest[:end]

	body = rest[end+len("\n---"):]
	if idx := bytes.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = nil
	}

	return fm, body
}

// headingText collects the literal text under an inline heading node.
func headingText(heading *ast.Heading, source []byte) []byte {
	var buf bytes.Buffer

	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		appendNodeText(&buf, child, source)
	}

	return bytes.TrimSpace(buf.Bytes())
}

func appendNodeText(buf *bytes.Buffer, n ast.Node, source []byte) {
	if textNode, ok := n.(*ast.Text); ok {
		buf.Write(textNode.Segment.Value(source))
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		appendNodeText(buf, child, source)
	}
}
