package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// Parser implements ports.MarkdownParser with goldmark
type Parser struct {
	md goldmark.Markdown
}

// Ensure Parser implements MarkdownParser
var _ ports.MarkdownParser = (*Parser)(nil)

// NewParser creates a CommonMark parser
func NewParser() *Parser {
	return &Parser{md: goldmark.New()}
}

// Headings returns every ATX and setext heading in document order
func (p *Parser) Headings(source string) []domain.HeadingEntry {
	return ExtractHeadings(p.md, source)
}

// ExtractHeadings parses source with md and collects its headings. Keys
// are "heading-N" with N the position of the heading in the document.
func ExtractHeadings(md goldmark.Markdown, source string) []domain.HeadingEntry {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var entries []domain.HeadingEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		entries = append(entries, domain.HeadingEntry{
			Key:   "heading-" + strconv.Itoa(len(entries)),
			Text:  strings.TrimSpace(inlineText(heading, src)),
			Level: heading.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	return entries
}

// inlineText concatenates the literal text below n, dropping markup
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}
