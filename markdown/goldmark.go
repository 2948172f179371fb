package markdown

import (
	"bytes"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by New.
const (
	EnginePipeline = "pipeline"
	EngineGoldmark = "goldmark"
)

// Goldmark renders full CommonMark + GFM with chroma syntax highlighting.
// Raw HTML in the source is not passed through.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a Goldmark renderer.
func NewGoldmark() *Goldmark {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Goldmark{md: md}
}

// Render converts md. On a conversion error the escaped source is returned
// inside a paragraph.
func (g *Goldmark) Render(md string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return buf.String()
}

// New returns the renderer for engine. An empty name selects the pipeline.
func New(engine string) (Renderer, error) {
	switch engine {
	case "", EnginePipeline:
		return defaultPipeline, nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("markdown: unknown engine %q", engine)
	}
}
