// Package markdown renders blog post bodies to HTML.
//
// The default engine is a small staged pipeline over a constrained markdown
// subset: headers, fenced and inline code, bold, italic, links, flat lists
// and paragraphs. Each stage takes a Document and returns a new one, so the
// order is explicit and every stage can be exercised on its own. A goldmark
// engine with GFM and syntax highlighting is available for richer content.
package markdown

import (
	"regexp"
	"strconv"
)

// Renderer turns markdown into an HTML fragment. Implementations never fail:
// malformed input degrades to literal text.
type Renderer interface {
	Render(md string) string
}

// Document is the value passed between stages: the working text plus
// fragments held out of it behind placeholders so later stages cannot
// rewrite them.
type Document struct {
	Text string
	held []string
}

const (
	blockMark  = "\x00B"
	inlineMark = "\x00I"
	markEnd    = "\x00"
)

var reHeld = regexp.MustCompile("\x00([BI])(\\d+)\x00")

// hold stores fragment and returns the placeholder that stands in for it.
func (d *Document) hold(mark, fragment string) string {
	ph := mark + strconv.Itoa(len(d.held)) + markEnd
	d.held = append(d.held, fragment)
	return ph
}

// Held returns the number of fragments currently held out of the text.
func (d Document) Held() int {
	return len(d.held)
}

// Stage is one step of the pipeline.
type Stage struct {
	Name  string
	Apply func(Document) Document
}

// Pipeline applies its stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...)}
}

// Stages returns the default stage list. Block-level extraction (fences,
// headers) runs before inline spans, which run before structural wrapping;
// restore must stay last.
func Stages() []Stage {
	return []Stage{
		{Name: "normalize", Apply: normalize},
		{Name: "fences", Apply: fences},
		{Name: "headers", Apply: headers},
		{Name: "inline-code", Apply: inlineCode},
		{Name: "links", Apply: links},
		{Name: "emphasis", Apply: emphasis},
		{Name: "lists", Apply: lists},
		{Name: "paragraphs", Apply: paragraphs},
		{Name: "restore", Apply: restore},
	}
}

// Names lists the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Render runs md through every stage.
func (p *Pipeline) Render(md string) string {
	doc := Document{Text: md}
	for _, s := range p.stages {
		doc = s.Apply(doc)
	}
	return doc.Text
}

var defaultPipeline = NewPipeline(Stages()...)

// Render renders md with the default pipeline.
func Render(md string) string {
	return defaultPipeline.Render(md)
}
