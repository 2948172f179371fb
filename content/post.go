// Package content provides blog posts to the site. Posts come from an
// embedded table of markdown files, a SQLite store edited through the admin
// dashboard, or a headless CMS reached over HTTP; all of them satisfy Source.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("content: post not found")

// DateLayout is the layout of BlogPost.Date.
const DateLayout = "2006-01-02"

// BlogPost is a single blog entry. Content holds the raw markdown body.
type BlogPost struct {
	Slug        string
	Title       string
	Description string
	Date        string
	Tags        []string
	Content     string
	ReadingTime string
	Draft       bool
}

// Link returns the site-relative URL of the post.
func (p BlogPost) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Time parses Date. The zero time is returned for unparseable dates.
func (p BlogPost) Time() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Source provides posts by slug or as a collection ordered by date,
// most recent first.
type Source interface {
	// GetPostBySlug returns the post with slug, drafts included, or ErrNotFound.
	GetPostBySlug(ctx context.Context, slug string) (BlogPost, error)
	// GetAllPosts returns every published (non-draft) post.
	GetAllPosts(ctx context.Context) ([]BlogPost, error)
	// GetAllPostsIncludingDrafts returns every post.
	GetAllPostsIncludingDrafts(ctx context.Context) ([]BlogPost, error)
}

const wordsPerMinute = 200

// ReadingTime returns a label like "3 min read" for a markdown body.
func ReadingTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// SortByDate sorts posts in place, latest first. Posts with unparseable
// dates go last; ties keep their original order.
func SortByDate(posts []BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].Time(), posts[j].Time()
		if ti.IsZero() != tj.IsZero() {
			return !ti.IsZero()
		}
		return ti.After(tj)
	})
}

// Published returns the posts that are not drafts, preserving order.
func Published(posts []BlogPost) []BlogPost {
	out := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeTag lowercases and trims a tag.
func NormalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// HasTag reports whether p carries tag, compared after normalization.
func (p BlogPost) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, t := range p.Tags {
		if NormalizeTag(t) == tag {
			return true
		}
	}
	return false
}

// Tags returns the sorted, deduplicated, normalized tags of posts.
func Tags(posts []BlogPost) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			if t = NormalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func clonePosts(posts []BlogPost) []BlogPost {
	out := make([]BlogPost, len(posts))
	for i, p := range posts {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}
