package folio

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/profile"
)

func newFeedApp() *App {
	a := New(SiteConfig{
		Name:        "Test Site",
		URL:         "https://example.com",
		Description: "Notes on Go",
	}, ViewFuncs{})
	a.Profile = profile.Default()
	return a
}

func TestBuildRSS(t *testing.T) {
	a := newFeedApp()
	posts := content.Published(testPosts())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	feed := a.buildRSS(posts, now)
	if feed.Version != "2.0" {
		t.Errorf("version = %q", feed.Version)
	}
	ch := feed.Channel
	if ch.Link != "https://example.com/blog/" {
		t.Errorf("channel link = %q", ch.Link)
	}
	if ch.AtomLink.Href != "https://example.com/rss.xml" || ch.AtomLink.Rel != "self" {
		t.Errorf("atom link = %+v", ch.AtomLink)
	}
	if ch.Language != "en" {
		t.Errorf("language = %q", ch.Language)
	}
	if want := "Sat, 03 Jan 2026 00:00:00 +0000"; ch.LastBuildDate != want {
		t.Errorf("lastBuildDate = %q, want newest post date %q", ch.LastBuildDate, want)
	}
	if len(ch.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(ch.Items))
	}
	item := ch.Items[0]
	if item.Link != "https://example.com/blog/go-one/" || item.GUID.Value != item.Link || !item.GUID.IsPermaLink {
		t.Errorf("unexpected item link/guid: %+v", item)
	}
	if len(item.Categories) != 2 || item.Categories[0] != "go" {
		t.Errorf("categories = %v", item.Categories)
	}

	out, err := xml.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`xmlns:atom="http://www.w3.org/2005/Atom"`, `<guid isPermaLink="true">`, `<category>web</category>`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("rss missing %s", want)
		}
	}
}

func TestBuildRSSEmptyUsesNow(t *testing.T) {
	a := newFeedApp()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	feed := a.buildRSS(nil, now)
	if feed.Channel.LastBuildDate != now.Format(time.RFC1123Z) {
		t.Errorf("lastBuildDate = %q", feed.Channel.LastBuildDate)
	}
	if len(feed.Channel.Items) != 0 {
		t.Errorf("expected no items")
	}
}

func TestBuildSitemap(t *testing.T) {
	a := newFeedApp()
	sm := a.buildSitemap(content.Published(testPosts()))
	if len(sm.URLs) != 5 {
		t.Fatalf("expected home, blog and 3 posts, got %d urls", len(sm.URLs))
	}
	if sm.URLs[0].Loc != "https://example.com" || sm.URLs[0].Priority != "1.0" {
		t.Errorf("home entry = %+v", sm.URLs[0])
	}
	if sm.URLs[1].Loc != "https://example.com/blog/" || sm.URLs[1].Priority != "0.9" {
		t.Errorf("blog entry = %+v", sm.URLs[1])
	}
	post := sm.URLs[2]
	if post.LastMod != "2026-01-03" || post.ChangeFreq != "monthly" || post.Priority != "0.8" {
		t.Errorf("post entry = %+v", post)
	}
}

func TestBuildLLMs(t *testing.T) {
	a := newFeedApp()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out := a.buildLLMs(a.Profile, content.Published(testPosts()), now)

	for _, want := range []string{
		"# Test Site\n",
		"> Last updated: 2026-03-01",
		"## Contact",
		"- Email: hello@example.com",
		"### Go One\nURL: https://example.com/blog/go-one/",
		"| Tags: go, web",
		"## About Alex Example",
		"### Professional Experience",
		"- **Cloud Developer**, Example Corp (Aug 2022 - Jan 2023)",
		"### Education",
		"### Technical Skills",
		"## Tech Stack",
		"- Go\n",
		"Disallow: /admin/",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("llms.txt missing %q", want)
		}
	}
	if strings.Contains(out, "Secret") {
		t.Errorf("llms.txt lists a draft")
	}
}

func TestBuildRobots(t *testing.T) {
	a := newFeedApp()
	out := a.buildRobots()
	for _, want := range []string{"User-agent: *", "Disallow: /admin/", "Sitemap: https://example.com/sitemap.xml"} {
		if !strings.Contains(out, want) {
			t.Errorf("robots.txt missing %q", want)
		}
	}
}
