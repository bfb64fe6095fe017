// Package markdown renders notification bodies to HTML and strips markup
// from user-supplied ticket text.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Service interface {
	ToHTMLSanitized(markdown string) (string, error)
	StripTags(text string) string
}

type service struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewService() Service {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	return &service{
		md:     md,
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

func (s *service) ToHTMLSanitized(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return s.ugc.Sanitize(buf.String()), nil
}

// StripTags removes every HTML element from text. Entities the strict
// policy escapes are decoded again so plain text such as "R&D" survives.
func (s *service) StripTags(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(text)))
}
