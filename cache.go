package folio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// PostCache is an in-memory cache of published blog posts and tags with TTL,
// in front of a content.Source.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.BlogPost
	tags    []string
	fetched time.Time
	ttl     time.Duration
	source  content.Source
	now     func() time.Time
}

// NewPostCache creates a PostCache backed by the given source.
func NewPostCache(src content.Source, ttl time.Duration) *PostCache {
	return &PostCache{source: src, ttl: ttl, now: time.Now}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.source.GetAllPosts(ctx)
	if err != nil {
		return err
	}
	posts = content.Published(posts)
	c.posts = posts
	c.tags = content.Tags(posts)
	c.fetched = c.now()
	return nil
}

// ensureLoaded returns cached posts and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.BlogPost, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// ListPosts returns published posts, latest first, optionally filtered by
// tag. The returned slice is shared; callers must not modify it.
func (c *PostCache) ListPosts(ctx context.Context, tag string) ([]content.BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	var filtered []content.BlogPost
	for _, p := range posts {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags(ctx context.Context) ([]string, error) {
	_, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// GetPost returns a published post from the cache. With includeDrafts the
// lookup falls through to the source for posts the cache does not hold.
func (c *PostCache) GetPost(ctx context.Context, slug string, includeDrafts bool) (content.BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	if !includeDrafts {
		return content.BlogPost{}, content.ErrNotFound
	}
	return c.source.GetPostBySlug(ctx, slug)
}
