package folio

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/sanitize"
	"github.com/eringen/folio/theme"
	"github.com/eringen/folio/views"
)

const homePostCount = 3

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// themeService builds the request's theme service on top of the session.
func (a *App) themeService(c echo.Context) (*theme.Service, error) {
	return theme.NewService(theme.NewSessionStore(c), theme.Theme(a.Config.DefaultTheme))
}

// basePage fills the parts of a page every view needs.
func (a *App) basePage(c echo.Context, meta views.Meta) views.Page {
	current := theme.Theme(a.Config.DefaultTheme)
	if svc, err := a.themeService(c); err == nil {
		current = svc.Get()
	} else {
		c.Logger().Warnf("theme: %v", err)
	}
	if meta.URL == "" {
		meta.URL = absURL(a.Config.URL, c.Request().URL.Path)
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.Description == "" {
		meta.Description = a.Config.Description
	}
	site := a.site()
	return views.Page{
		Site:        site,
		Meta:        meta,
		Path:        c.Request().URL.Path,
		Theme:       current.String(),
		CSRF:        CsrfToken(c),
		ThemeScript: template.JS(theme.BootstrapScript("")),
		JSONLD:      views.WebsiteJSONLD(site),
		IsAdmin:     IsAdmin(c),
	}
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}

	p := a.Profile
	page := a.basePage(c, views.Meta{
		Title:       p.Name + " | " + p.Tagline,
		Description: p.Summary,
		OGType:      "profile",
	})
	page.JSONLD = views.PersonJSONLD(page.Site, p)

	data := views.HomeData{
		Page:     page,
		Profile:  p,
		Posts:    posts,
		LinkedIn: a.Badges.LinkedIn(p.Badges.LinkedInID, p.Name, p.Tagline),
	}
	if a.Config.FetchBadges {
		if data.Badges, err = a.Badges.CredlyAll(ctx, p.Badges.CredlyBadgeIDs); err != nil {
			c.Logger().Warnf("badges: %v", err)
		}
		if p.Badges.GitHubUser != "" {
			if data.GitHub, err = a.Badges.GitHub(ctx, p.Badges.GitHubUser); err != nil {
				c.Logger().Warnf("badges: %v", err)
			}
		}
	}
	return Render(c, a.Views.Home(data))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	tag := content.NormalizeTag(c.QueryParam("tag"))
	posts, err := a.Cache.ListPosts(ctx, tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags(ctx)
	if err != nil {
		return err
	}
	title := "Blog"
	if tag != "" {
		title = "Posts tagged " + tag
	}
	data := views.BlogData{
		Page:      a.basePage(c, views.Meta{Title: title}),
		Posts:     posts,
		Tags:      tags,
		ActiveTag: tag,
	}
	if isHTMX(c) && c.QueryParam("partial") == "list" {
		return Render(c, a.Views.BlogPartial(data))
	}
	return Render(c, a.Views.Blog(data))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.GetPost(ctx, c.Param("slug"), IsAdmin(c))
	if errors.Is(err, content.ErrNotFound) {
		return a.renderNotFound(c, "Post not found")
	}
	if err != nil {
		return err
	}

	body := sanitize.HTML(a.Renderer.Render(post.Content))
	if isHTMX(c) && c.QueryParam("partial") == "body" {
		return Render(c, markdown.Component(body))
	}

	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	page := a.basePage(c, views.Meta{
		Title:       post.Title,
		Description: post.Description,
		OGType:      "article",
	})
	page.JSONLD = views.BlogPostingJSONLD(page.Site, post)
	data := views.PostData{
		Page:    page,
		Post:    post,
		Body:    template.HTML(body),
		Related: RelatedPosts(post, posts),
	}
	if isHTMX(c) && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(data))
	}
	return Render(c, a.Views.Post(data))
}

func (a *App) renderNotFound(c echo.Context, title string) error {
	page := a.basePage(c, views.Meta{Title: title})
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(page))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleTheme sets the theme named by the "theme" form value, or toggles
// it when none is given.
func (a *App) handleTheme(c echo.Context) error {
	svc, err := a.themeService(c)
	if err != nil {
		return err
	}
	var next theme.Theme
	if v := c.FormValue("theme"); v != "" {
		t, err := theme.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown theme")
		}
		if err := svc.Set(t); err != nil {
			return err
		}
		next = t
	} else if next, err = svc.Toggle(); err != nil {
		return err
	}

	if isHTMX(c) {
		trigger, _ := json.Marshal(map[string]string{"themeChanged": next.String()})
		c.Response().Header().Set("HX-Trigger", string(trigger))
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, sameSiteReferer(c))
}

// sameSiteReferer returns the path of the Referer when it points at this
// host, and "/" otherwise.
func sameSiteReferer(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func (a *App) handleThemeScript(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8",
		[]byte(theme.BootstrapScript("")))
}

func (a *App) handleFavicon(c echo.Context) error {
	if p := filepath.Join(a.staticDir, "favicon.svg"); fileExists(p) {
		return c.File(p)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", data)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c, "Page not found")
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		page := a.basePage(c, views.Meta{Title: "Server error"})
		_ = RenderStatus(c, code, a.Views.ServerError(page))
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/admin") || isHTMX(c) {
		_ = c.String(code, http.StatusText(code))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
