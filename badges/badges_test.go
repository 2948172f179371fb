package badges

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const credlyPage = `<!DOCTYPE html><html><head>
<meta property="og:title" content="Cloud Foundations was issued by Example Academy to Alex Example." />
<meta property="og:description" content="Earners understand cloud basics." />
<meta property="og:image" content="https://images.example.com/badge.png" />
<meta property="og:url" content="https://www.credly.com/badges/abc" />
</head><body></body></html>`

func TestParseCredlyPage(t *testing.T) {
	b, err := ParseCredlyPage("abc", strings.NewReader(credlyPage))
	if err != nil {
		t.Fatalf("ParseCredlyPage failed: %v", err)
	}
	if b.Title != "Cloud Foundations" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.IssuerName != "Example Academy" {
		t.Errorf("IssuerName = %q", b.IssuerName)
	}
	if b.Description != "Earners understand cloud basics." {
		t.Errorf("Description = %q", b.Description)
	}
	if b.ImageURL != "https://images.example.com/badge.png" || b.BadgeURL != "https://www.credly.com/badges/abc" {
		t.Errorf("urls = %q, %q", b.ImageURL, b.BadgeURL)
	}
}

func TestParseCredlyPageDefaults(t *testing.T) {
	page := `<html><head><meta property="og:title" content="Some Badge"></head></html>`
	b, err := ParseCredlyPage("xyz", strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseCredlyPage failed: %v", err)
	}
	if b.Title != "Some Badge" || b.IssuerName != "Credly" {
		t.Errorf("Title/Issuer = %q/%q, want verbatim title and Credly", b.Title, b.IssuerName)
	}
	if b.BadgeURL != "https://www.credly.com/badges/xyz/public_url" {
		t.Errorf("BadgeURL = %q", b.BadgeURL)
	}
}

func TestParseCredlyPageMissingTitle(t *testing.T) {
	if _, err := ParseCredlyPage("x", strings.NewReader("<html></html>")); err == nil {
		t.Error("expected error without og:title")
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.Client(), time.Minute)
	c.CredlyURL = srv.URL
	c.GitHubAPI = srv.URL
	return c, &hits
}

func TestCredlyFetchAndCache(t *testing.T) {
	var path string
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(credlyPage))
	})
	var observed []string
	c.OnFetch = func(kind string, err error) { observed = append(observed, kind) }

	for i := 0; i < 3; i++ {
		b, err := c.Credly(context.Background(), "abc")
		if err != nil {
			t.Fatalf("Credly failed: %v", err)
		}
		if b.Title != "Cloud Foundations" {
			t.Errorf("Title = %q", b.Title)
		}
	}
	if path != "/badges/abc" {
		t.Errorf("path = %q", path)
	}
	if *hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (cached)", *hits)
	}
	if len(observed) != 1 || observed[0] != "credly" {
		t.Errorf("observed = %v", observed)
	}
}

func TestCacheExpires(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(credlyPage))
	})
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Credly(context.Background(), "abc")
	now = now.Add(2 * time.Minute)
	c.Credly(context.Background(), "abc")
	if *hits != 2 {
		t.Errorf("upstream hits = %d, want 2 after TTL", *hits)
	}
}

func TestFailuresAreNotCached(t *testing.T) {
	fail := true
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(credlyPage))
	})

	b, err := c.Credly(context.Background(), "abc")
	if err == nil || b != nil {
		t.Fatalf("Credly = %v, %v; want nil and error", b, err)
	}
	fail = false
	if _, err := c.Credly(context.Background(), "abc"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if *hits != 2 {
		t.Errorf("upstream hits = %d, want 2", *hits)
	}
}

func TestCredlyEmptyID(t *testing.T) {
	c := NewClient(nil, 0)
	if _, err := c.Credly(context.Background(), " "); !errors.Is(err, ErrEmptyID) {
		t.Errorf("err = %v, want ErrEmptyID", err)
	}
}

func TestCredlyAll(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(credlyPage))
	})
	got, err := c.CredlyAll(context.Background(), []string{"one", "bad", "two"})
	if err == nil {
		t.Error("expected joined error for the failing badge")
	}
	if len(got) != 2 || got[0].ID != "one" || got[1].ID != "two" {
		t.Errorf("badges = %+v", got)
	}
}

func TestGitHub(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octo" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"login":"octo","name":null,"avatar_url":"https://a.example/o.png","html_url":"https://github.com/octo","bio":"hi","public_repos":8,"followers":20,"following":1}`))
	})

	u, err := c.GitHub(context.Background(), "octo")
	if err != nil {
		t.Fatalf("GitHub failed: %v", err)
	}
	if u.Login != "octo" || u.PublicRepos != 8 || u.Followers != 20 || u.Following != 1 {
		t.Errorf("user = %+v", u)
	}
	if u.DisplayName() != "octo" {
		t.Errorf("DisplayName = %q, want login when name is null", u.DisplayName())
	}
	c.GitHub(context.Background(), "OCTO")
	if *hits != 1 {
		t.Errorf("upstream hits = %d, want 1", *hits)
	}

	if _, err := c.GitHub(context.Background(), "ghost"); err == nil {
		t.Error("expected error for missing user")
	}
}

func TestLinkedIn(t *testing.T) {
	c := NewClient(nil, 0)
	card := c.LinkedIn("alex-example", "Alex", "Engineer")
	if card.URL != "https://www.linkedin.com/in/alex-example" {
		t.Errorf("URL = %q", card.URL)
	}
	if card.Name != "Alex" || card.Headline != "Engineer" {
		t.Errorf("card = %+v", card)
	}
}
