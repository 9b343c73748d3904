// Package markdown renders operator-authored free text (calculation-log descriptions) into sanitized
// HTML for the admin surface, using goldmark for rendering and bluemonday to strip anything
// beyond a conservative tag allowlist before the result ever reaches a browser.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type MarkdownService interface {
	ToHTML(markdown string) (string, error)
	Sanitize(htmlContent string) string
	ToHTMLSanitized(markdown string) (string, error)
}

type markdownServiceImpl struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewMarkdownService builds a MarkdownService with GFM extensions enabled and a UGC-level
// sanitization policy (no script/style/iframe, no inline event handlers).
func NewMarkdownService() MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &markdownServiceImpl{
		md:        md,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *markdownServiceImpl) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

func (s *markdownServiceImpl) Sanitize(htmlContent string) string {
	return s.sanitizer.Sanitize(htmlContent)
}

func (s *markdownServiceImpl) ToHTMLSanitized(markdown string) (string, error) {
	rawHTML, err := s.ToHTML(markdown)
	if err != nil {
		return "", err
	}
	return s.Sanitize(rawHTML), nil
}
