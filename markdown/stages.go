package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFence      = regexp.MustCompile("(?ms)^```[ \\t]*([\\w+#.-]*)[^\\n]*\\n(.*?)^```[ \\t]*$")
	reHeader     = regexp.MustCompile(`(?m)^(#{1,3})[ \t]+(.+?)[ \t]*$`)
	reInlineCode = regexp.MustCompile("`([^`\\n]+)`")
	reLink       = regexp.MustCompile(`\[([^\]\n]+)\]\(((?:[^()\s]|\([^()\s]*\))+)\)`)
	reStrongEm   = regexp.MustCompile(`\*\*\*([^*\n]+?)\*\*\*`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*\n]+)\*`)
	reBullet     = regexp.MustCompile(`^- (.*)$`)
	reOrdered    = regexp.MustCompile(`^\d+\. (.*)$`)
	reBlankLine  = regexp.MustCompile(`\n\s*\n`)
)

// normalize unifies line endings, drops NUL bytes (the placeholder marker)
// and escapes the text so only markup produced by later stages survives.
func normalize(d Document) Document {
	text := strings.ReplaceAll(d.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	d.Text = html.EscapeString(text)
	return d
}

// fences holds out fenced code blocks. An unterminated fence does not match
// and stays literal.
func fences(d Document) Document {
	d.Text = reFence.ReplaceAllStringFunc(d.Text, func(m string) string {
		match := reFence.FindStringSubmatch(m)
		lang, code := match[1], strings.TrimSpace(match[2])
		open := "<pre><code>"
		if lang != "" {
			open = `<pre><code class="language-` + lang + `">`
		}
		return "\n\n" + d.hold(blockMark, open+code+"</code></pre>") + "\n\n"
	})
	return d
}

// headers turns #, ## and ### lines into headings, each in its own block.
func headers(d Document) Document {
	d.Text = reHeader.ReplaceAllStringFunc(d.Text, func(m string) string {
		match := reHeader.FindStringSubmatch(m)
		level := strconv.Itoa(len(match[1]))
		return "\n\n<h" + level + ">" + match[2] + "</h" + level + ">\n\n"
	})
	return d
}

// inlineCode holds out single-backtick spans so emphasis never reaches them.
func inlineCode(d Document) Document {
	d.Text = reInlineCode.ReplaceAllStringFunc(d.Text, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		return d.hold(inlineMark, "<code>"+match[1]+"</code>")
	})
	return d
}

// links rewrites [label](url) into anchors that open in a new context and
// holds them out, so emphasis around a link still applies but never reaches
// the href. The label gets its own emphasis pass. Unsafe or unparseable URLs
// leave only the label. One level of parentheses is allowed inside the URL.
func links(d Document) Document {
	d.Text = reLink.ReplaceAllStringFunc(d.Text, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		label := emphasize(match[1])
		href := SafeURL(match[2])
		if href == "" {
			return label
		}
		return d.hold(inlineMark, `<a href="`+href+`" target="_blank" rel="noopener noreferrer">`+label+`</a>`)
	})
	return d
}

// emphasis applies bold and italic outside of generated tags.
func emphasis(d Document) Document {
	d.Text = ApplyOutsideTags(d.Text, emphasize)
	return d
}

func emphasize(s string) string {
	s = reStrongEm.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	return reItalic.ReplaceAllString(s, "<em>$1</em>")
}

// lists turns "- " and "N. " lines into list items. Each run of consecutive
// items of one kind gets its own <ul> or <ol> wrapper and its own block.
func lists(d Document) Document {
	lines := strings.Split(d.Text, "\n")
	out := make([]string, 0, len(lines))
	kind := ""
	var items strings.Builder
	flush := func() {
		if kind == "" {
			return
		}
		out = append(out, "", "<"+kind+">"+items.String()+"</"+kind+">", "")
		items.Reset()
		kind = ""
	}
	for _, line := range lines {
		want, item := "", ""
		if m := reBullet.FindStringSubmatch(line); m != nil {
			want, item = "ul", m[1]
		} else if m := reOrdered.FindStringSubmatch(line); m != nil {
			want, item = "ol", m[1]
		}
		if want == "" {
			flush()
			out = append(out, line)
			continue
		}
		if kind != want {
			flush()
			kind = want
		}
		items.WriteString("<li>" + strings.TrimSpace(item) + "</li>")
	}
	flush()
	d.Text = strings.Join(out, "\n")
	return d
}

var blockPrefixes = []string{"<h1", "<h2", "<h3", "<ul", "<ol", "<li", "<pre", blockMark}

// paragraphs wraps every non-empty block that is not already block-level.
func paragraphs(d Document) Document {
	blocks := reBlankLine.Split(d.Text, -1)
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if isBlock(b) {
			out = append(out, b)
			continue
		}
		out = append(out, "<p>"+b+"</p>")
	}
	d.Text = strings.Join(out, "\n")
	return d
}

func isBlock(b string) bool {
	for _, p := range blockPrefixes {
		if strings.HasPrefix(b, p) {
			return true
		}
	}
	return false
}

// restore puts held fragments back in place of their placeholders. A held
// fragment may contain earlier placeholders (inline code inside a link
// label), so it repeats until none are left. Every fragment refers only to
// lower indices, which bounds the passes.
func restore(d Document) Document {
	for pass := 0; pass <= len(d.held) && reHeld.MatchString(d.Text); pass++ {
		d.Text = reHeld.ReplaceAllStringFunc(d.Text, func(m string) string {
			match := reHeld.FindStringSubmatch(m)
			i, err := strconv.Atoi(match[2])
			if err != nil || i >= len(d.held) {
				return ""
			}
			return d.held[i]
		})
	}
	d.held = nil
	return d
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes, etc.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// It returns "" for anything but relative, fragment, http, https, mailto
// and tel URLs.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
