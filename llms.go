package folio

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/profile"
)

// buildLLMs renders the llms.txt summary: a markdown document describing
// the site and its owner for language-model crawlers.
func (a *App) buildLLMs(p *profile.Profile, posts []content.BlogPost, now time.Time) string {
	base := a.Config.URL
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("# %s", a.Config.Name)
	line("")
	line("> Personal portfolio and blog of %s - %s.", p.Name, p.Tagline)
	line("> Last updated: %s", now.UTC().Format(content.DateLayout))
	line("")

	line("## Contact")
	if p.Socials.Email != "" {
		line("- Email: %s", p.Socials.Email)
	}
	if u := p.LinkedInURL(); u != "" {
		line("- LinkedIn: %s", u)
	}
	if p.Socials.GitHub != "" {
		line("- GitHub: %s", p.Socials.GitHub)
	}
	line("")

	line("## Pages")
	line("")
	line("### Home")
	line("URL: %s", BuildURL(base))
	line("Profile with experience, projects, credentials and the latest posts.")
	line("")
	line("### Blog")
	line("URL: %s", BuildURL(base, "blog"))
	line("Articles written in markdown. Feed: %s", absURL(base, "/rss.xml"))
	for _, post := range posts {
		line("")
		line("### %s", post.Title)
		line("URL: %s", BuildURL(base, "blog", post.Slug))
		desc := post.Description
		if len(post.Tags) > 0 {
			desc += " | Tags: " + strings.Join(post.Tags, ", ")
		}
		line("%s", strings.TrimSpace(desc))
	}
	line("")

	line("## About %s", p.Name)
	line("")
	line("%s", p.Summary)
	line("")
	if p.Location != "" {
		line("**Location**: %s", p.Location)
		line("")
	}

	if len(p.Experience) > 0 {
		line("### Professional Experience")
		line("")
		for _, e := range p.Experience {
			line("- **%s**, %s (%s): %s", e.Role, e.Company, e.Date, e.Details)
		}
		line("")
	}
	if len(p.Education) > 0 {
		line("### Education")
		line("")
		for _, e := range p.Education {
			line("- **%s** - %s (%s): %s", e.School, e.Degree, e.Date, e.Details)
		}
		line("")
	}
	if len(p.Skills) > 0 {
		line("### Technical Skills")
		line("")
		line("%s", strings.Join(p.Skills, ", "))
		line("")
	}
	if len(p.Certifications) > 0 {
		line("### Certifications")
		line("")
		for _, c := range p.Certifications {
			line("- %s", c)
		}
		line("")
	}
	if len(p.Projects) > 0 {
		line("## Projects")
		line("")
		for _, pr := range p.Projects {
			line("- [%s](%s): %s - %s", pr.Name, pr.URL, pr.Role, pr.Description)
		}
		line("")
	}
	if len(p.TechStack) > 0 {
		line("## Tech Stack")
		line("")
		for _, t := range p.TechStack {
			line("- %s", t)
		}
		line("")
	}

	line("## Crawling Rules")
	line("")
	line("Disallow: /admin/")
	line("Disallow: /metrics")
	return b.String()
}

func (a *App) handleLLMs(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, a.buildLLMs(a.Profile, posts, time.Now()))
}

func (a *App) buildRobots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /metrics\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", absURL(a.Config.URL, "/sitemap.xml"))
	return b.String()
}

// handleRobots serves robots.txt from the static dir when present and
// generates it otherwise.
func (a *App) handleRobots(c echo.Context) error {
	if p := filepath.Join(a.staticDir, "robots.txt"); fileExists(p) {
		return c.File(p)
	}
	return c.String(http.StatusOK, a.buildRobots())
}
