// Package sanitize guards the boundary where HTML is injected into pages.
//
// HTML filters rendered post bodies through an allow-list of tags and
// attributes. EscapeForDisplay and StripAndEscape are for plain text that
// comes from outside the site.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var allowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "br", "hr",
	"strong", "b", "em", "i", "u", "s",
	"code", "pre", "kbd", "samp",
	"a",
	"ul", "ol", "li",
	"blockquote",
	"img",
	"table", "thead", "tbody", "tr", "th", "td",
	"div", "span",
}

var (
	reClass  = regexp.MustCompile(`^[\w\-+#. ]{1,128}$`)
	reID     = regexp.MustCompile(`^[\w\-]{1,128}$`)
	reRel    = regexp.MustCompile(`^[a-z ]+$`)
	reTarget = regexp.MustCompile(`^_blank$`)
	reTag    = regexp.MustCompile(`<[^>]*>`)
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowStandardURLs()
	p.AllowURLSchemes("tel")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(reTarget).OnElements("a")
	p.AllowAttrs("rel").Matching(reRel).OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	p.AllowImages()
	p.AllowAttrs("class").Matching(reClass).OnElements("code", "pre", "span", "div")
	p.AllowAttrs("id").Matching(reID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

// AllowedTags returns a copy of the tag allow-list.
func AllowedTags() []string {
	return append([]string(nil), allowedTags...)
}

// HTML removes every element and attribute outside the allow-list.
// script and style elements are dropped together with their contents.
func HTML(s string) string {
	return policy.Sanitize(s)
}

var displayEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeForDisplay escapes the five HTML-significant characters. The
// replacement is a single pass, so entities it introduces are never
// escaped again.
func EscapeForDisplay(text string) string {
	return displayEscaper.Replace(text)
}

// StripAndEscape removes anything that looks like a tag and escapes the
// rest. Intended for untrusted input such as comments.
func StripAndEscape(text string) string {
	return EscapeForDisplay(reTag.ReplaceAllString(text, ""))
}
