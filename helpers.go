package folio

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/eringen/folio/content"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// absURL joins base with a site path that may carry a file name, such as
// "/rss.xml", without adding a trailing slash.
func absURL(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

const maxRelatedPosts = 3

// RelatedPosts ranks posts by the number of tags they share with current
// and returns the top three. Posts sharing nothing are dropped; ties keep
// the order of posts.
func RelatedPosts(current content.BlogPost, posts []content.BlogPost) []content.BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := content.NormalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	type scored struct {
		post  content.BlogPost
		score int
	}
	var candidates []scored
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		seen := make(map[string]struct{})
		score := 0
		for _, t := range p.Tags {
			tag := content.NormalizeTag(t)
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if _, ok := tagSet[tag]; ok {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{p, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxRelatedPosts {
		candidates = candidates[:maxRelatedPosts]
	}
	related := make([]content.BlogPost, len(candidates))
	for i, c := range candidates {
		related[i] = c.post
	}
	return related
}

// ParseTagList splits a comma-separated form value into trimmed, lowercased
// tags, dropping empties and duplicates.
func ParseTagList(s string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, t := range FilterEmpty(strings.Split(s, ",")) {
		t = content.NormalizeTag(t)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
