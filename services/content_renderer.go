// File: /services/content_renderer.go
package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"socialpulse-api/models"
)

// PlatformCharacterLimits are the post length limits of each network.
var PlatformCharacterLimits = map[models.Platform]int{
	models.PlatformTwitter:   280,
	models.PlatformLinkedIn:  3000,
	models.PlatformInstagram: 2200,
}

// PostPreview is returned by GET /posts/:id/preview.
type PostPreview struct {
	PostID      string          `json:"post_id"`
	Platform    models.Platform `json:"platform"`
	HTML        string          `json:"html"`
	PlainText   string          `json:"plain_text"`
	Characters  int             `json:"characters"`
	Limit       int             `json:"limit"`
	WithinLimit bool            `json:"within_limit"`
}

// ContentRenderer turns markdown post content into HTML for the dashboard
// preview. Raw HTML in the source is not passed through.
type ContentRenderer struct {
	md goldmark.Markdown
}

func NewContentRenderer() *ContentRenderer {
	return &ContentRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Linkify,
				extension.Strikethrough,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

func (r *ContentRenderer) Preview(post models.Post) (*PostPreview, error) {
	source := []byte(post.Content)

	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	plain := r.plainText(source)
	chars := utf8.RuneCountInString(plain)
	limit := PlatformCharacterLimits[post.Platform]

	return &PostPreview{
		PostID:      post.ID,
		Platform:    post.Platform,
		HTML:        buf.String(),
		PlainText:   plain,
		Characters:  chars,
		Limit:       limit,
		WithinLimit: limit == 0 || chars <= limit,
	}, nil
}

// plainText is what the platform will count: markdown markers stripped,
// paragraphs separated by a blank line.
func (r *ContentRenderer) plainText(source []byte) string {
	doc := r.md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.NextSibling() != nil && n.Parent() == doc {
				sb.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.HardLineBreak() || node.SoftLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.AutoLink:
			sb.Write(node.URL(source))
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					sb.Write(t.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
