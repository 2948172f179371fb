package folio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

// countingSource counts GetAllPosts calls.
type countingSource struct {
	*content.Static
	calls int
}

func (s *countingSource) GetAllPosts(ctx context.Context) ([]content.BlogPost, error) {
	s.calls++
	return s.Static.GetAllPosts(ctx)
}

func testPosts() []content.BlogPost {
	return []content.BlogPost{
		{Slug: "go-one", Title: "Go One", Date: "2026-01-03", Tags: []string{"go", "web"}, Content: "one"},
		{Slug: "go-two", Title: "Go Two", Date: "2026-01-02", Tags: []string{"go"}, Content: "two"},
		{Slug: "css", Title: "CSS", Date: "2026-01-01", Tags: []string{"css"}, Content: "css"},
		{Slug: "secret", Title: "Secret", Date: "2026-01-04", Tags: []string{"go"}, Draft: true, Content: "draft"},
	}
}

func newCountingCache(ttl time.Duration) (*PostCache, *countingSource) {
	src := &countingSource{Static: content.NewStatic(testPosts())}
	return NewPostCache(src, ttl), src
}

func TestPostCacheReusesWithinTTL(t *testing.T) {
	cache, src := newCountingCache(time.Minute)
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.ListPosts(ctx, ""); err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 source call, got %d", src.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.ListPosts(ctx, ""); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected reload after TTL, got %d calls", src.calls)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	cache, src := newCountingCache(time.Hour)
	ctx := context.Background()
	if _, err := cache.ListTags(ctx); err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.ListTags(ctx); err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected reload after Invalidate, got %d calls", src.calls)
	}
}

func TestPostCacheListPosts(t *testing.T) {
	cache, _ := newCountingCache(time.Hour)
	ctx := context.Background()

	all, err := cache.ListPosts(ctx, "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 published posts, got %d", len(all))
	}
	if all[0].Slug != "go-one" {
		t.Errorf("expected latest post first, got %q", all[0].Slug)
	}

	tagged, err := cache.ListPosts(ctx, "GO")
	if err != nil {
		t.Fatalf("ListPosts tag: %v", err)
	}
	if len(tagged) != 2 {
		t.Fatalf("expected 2 posts tagged go, got %d", len(tagged))
	}

	tags, err := cache.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	want := []string{"css", "go", "web"}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestPostCacheGetPostDrafts(t *testing.T) {
	cache, _ := newCountingCache(time.Hour)
	ctx := context.Background()

	if _, err := cache.GetPost(ctx, "go-two", false); err != nil {
		t.Fatalf("GetPost published: %v", err)
	}
	if _, err := cache.GetPost(ctx, "secret", false); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft, got %v", err)
	}
	p, err := cache.GetPost(ctx, "secret", true)
	if err != nil {
		t.Fatalf("GetPost with drafts: %v", err)
	}
	if !p.Draft {
		t.Errorf("expected draft post")
	}
	if _, err := cache.GetPost(ctx, "missing", true); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
}
