package views

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/folio/badges"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/profile"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func testPage() Page {
	return Page{
		Site:        Site{Name: "Folio", URL: "https://example.com", Author: "Alex"},
		Meta:        Meta{Title: "Hello", URL: "https://example.com/"},
		Theme:       "dark",
		CSRF:        "tok123",
		ThemeScript: template.JS(`window.x = 1;`),
	}
}

func TestLayout(t *testing.T) {
	out := render(t, NotFound(testPage()))
	for _, want := range []string{
		`<html lang="en" class="dark" data-theme="dark">`,
		`<meta name="csrf-token" content="tok123">`,
		`<title>Hello | Folio</title>`,
		`window.x = 1;`,
		`<link rel="canonical" href="https://example.com/">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("layout missing %q", want)
		}
	}
}

func TestPostBodyIsNotEscaped(t *testing.T) {
	d := PostData{
		Page: testPage(),
		Post: content.BlogPost{Slug: "p", Title: "<T>", Date: "2026-01-07", Tags: []string{"go"}, ReadingTime: "1 min read"},
		Body: template.HTML("<p><strong>hi</strong></p>"),
		Related: []content.BlogPost{
			{Slug: "r", Title: "Related", Date: "2026-01-06"},
		},
	}
	out := render(t, Post(d))
	if !strings.Contains(out, "<p><strong>hi</strong></p>") {
		t.Error("body fragment was escaped")
	}
	if !strings.Contains(out, "&lt;T&gt;") {
		t.Error("title was not escaped")
	}
	if !strings.Contains(out, "January 7, 2026") {
		t.Error("date not formatted")
	}
	if !strings.Contains(out, `href="/blog/r/"`) {
		t.Error("related post link missing")
	}
}

func TestPostPartialHasNoLayout(t *testing.T) {
	out := render(t, PostPartial(PostData{Page: testPage(), Post: content.BlogPost{Title: "x"}}))
	if strings.Contains(out, "<html") {
		t.Error("partial rendered the layout")
	}
	if !strings.Contains(out, `id="post-body"`) {
		t.Error("partial missing body container")
	}
}

func TestBlogTagFilter(t *testing.T) {
	d := BlogData{
		Page:      testPage(),
		Posts:     []content.BlogPost{{Slug: "a", Title: "A", Date: "2026-01-01", Tags: []string{"go"}}},
		Tags:      []string{"go", "web"},
		ActiveTag: "go",
	}
	out := render(t, BlogPartial(d))
	if !strings.Contains(out, `class="tag tag-active" href="/blog/?tag=go"`) {
		t.Errorf("active tag not marked:\n%s", out)
	}
	if !strings.Contains(out, `href="/blog/a/"`) {
		t.Error("post link missing")
	}
	empty := render(t, BlogPartial(BlogData{Page: testPage()}))
	if !strings.Contains(empty, "No posts yet.") {
		t.Error("empty state missing")
	}
}

func TestHome(t *testing.T) {
	p := profile.Default()
	d := HomeData{
		Page:    testPage(),
		Profile: p,
		Posts:   []content.BlogPost{{Slug: "a", Title: "First", Date: "2026-01-01"}},
		Badges: []*badges.CredlyBadge{
			{ID: "1", Title: "Cloud Foundations", IssuerName: "Example Academy", BadgeURL: "https://www.credly.com/badges/1"},
		},
		GitHub:   &badges.GitHubUser{Login: "octo", HTMLURL: "https://github.com/octo", PublicRepos: 3},
		LinkedIn: badges.LinkedInCard{ProfileID: "alex", Name: "Alex", URL: "https://www.linkedin.com/in/alex"},
	}
	out := render(t, Home(d))
	for _, want := range []string{p.Name, "Cloud Foundations", "Example Academy", "@octo", "https://www.linkedin.com/in/alex", "First"} {
		if !strings.Contains(out, want) {
			t.Errorf("home missing %q", want)
		}
	}
}

func TestAdminPages(t *testing.T) {
	login := render(t, AdminLogin(AdminLoginData{Page: testPage(), ShowError: true}))
	if !strings.Contains(login, "Invalid password.") || !strings.Contains(login, `value="tok123"`) {
		t.Error("login page missing error or csrf field")
	}
	form := render(t, AdminForm(AdminFormData{Page: testPage(), Post: content.BlogPost{Title: "T", Tags: []string{"a", "b"}}}))
	if !strings.Contains(form, `value="a, b"`) {
		t.Error("tags not joined in form")
	}
	dash := render(t, AdminDashboard(AdminData{Page: testPage(), Posts: []content.BlogPost{{Slug: "d", Title: "D", Draft: true}}}))
	if !strings.Contains(dash, "draft") {
		t.Error("draft status missing")
	}
	imgs := render(t, AdminImages(AdminImagesData{Page: testPage(), Images: []content.Image{{Filename: "a.png", OriginalName: "A"}}}))
	if !strings.Contains(imgs, "/public/uploads/a.png") {
		t.Error("image path missing")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-01-07"); got != "January 7, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("soon"); got != "soon" {
		t.Errorf("FormatDate(invalid) = %q", got)
	}
}

func TestBlogPostingJSONLD(t *testing.T) {
	js := string(BlogPostingJSONLD(Site{Name: "Folio", URL: "https://example.com", Author: "Alex"},
		content.BlogPost{Slug: "p", Title: "T", Date: "2026-01-07", Tags: []string{"go", "web"}}))
	for _, want := range []string{`"@type":"BlogPosting"`, `"url":"https://example.com/blog/p/"`, `"keywords":"go, web"`, `"datePublished":"2026-01-07"`} {
		if !strings.Contains(js, want) {
			t.Errorf("JSON-LD missing %s in %s", want, js)
		}
	}
}

func TestPersonJSONLD(t *testing.T) {
	p := &profile.Profile{Name: "Alex", Tagline: "Engineer", Socials: profile.Socials{GitHub: "https://github.com/a"}}
	js := string(PersonJSONLD(Site{URL: "https://example.com"}, p))
	if !strings.Contains(js, `"@type":"Person"`) || !strings.Contains(js, `"sameAs":["https://github.com/a"]`) {
		t.Errorf("Person JSON-LD = %s", js)
	}
}
