package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"meetupfinder/internal/domain"
)

// renderer implements domain.TextRenderer with goldmark and a bluemonday UGC policy.
// Raw HTML in the source is dropped by goldmark and the output is sanitized again.
type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer returns a stateless TextRenderer. It is safe for concurrent use.
func NewRenderer() domain.TextRenderer {
	return &renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *renderer) Render(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(markdown))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}
