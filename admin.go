package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

func (a *App) adminPage(c echo.Context, title string) views.Page {
	return a.basePage(c, views.Meta{Title: title})
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(views.AdminLoginData{Page: a.adminPage(c, "Admin")}))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.AdminLogin(views.AdminLoginData{
			Page:   a.adminPage(c, "Admin"),
			Locked: true,
		}))
	}
	pass := c.FormValue("password")
	if pass == "" || subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(views.AdminLoginData{
			Page:      a.adminPage(c, "Admin"),
			ShowError: true,
		}))
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNew(c echo.Context) error {
	return Render(c, a.Views.AdminForm(views.AdminFormData{
		Page:  a.adminPage(c, "New post"),
		Post:  content.BlogPost{Date: time.Now().Format(content.DateLayout)},
		IsNew: true,
	}))
}

func (a *App) handleAdminPost(c echo.Context) error {
	post, err := a.Store.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminForm(views.AdminFormData{
		Page: a.adminPage(c, "Edit "+post.Title),
		Post: post,
	}))
}

// postFromForm reads the post form. The returned message is non-empty when
// the form is invalid.
func postFromForm(c echo.Context) (content.BlogPost, string) {
	post := content.BlogPost{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Slug:        Slugify(c.FormValue("slug")),
		Date:        strings.TrimSpace(c.FormValue("date")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Tags:        ParseTagList(c.FormValue("tags")),
		ReadingTime: strings.TrimSpace(c.FormValue("reading_time")),
		Content:     c.FormValue("content"),
		Draft:       c.FormValue("draft") == "true",
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.Date == "" {
		post.Date = time.Now().Format(content.DateLayout)
	}
	if post.ReadingTime == "" {
		post.ReadingTime = content.ReadingTime(post.Content)
	}
	switch {
	case post.Title == "":
		return post, "Title is required."
	case post.Slug == "":
		return post, "Slug is required. Add a title or slug."
	}
	if _, err := time.Parse(content.DateLayout, post.Date); err != nil {
		return post, "Invalid date format. Use YYYY-MM-DD."
	}
	return post, ""
}

func (a *App) handleAdminSave(c echo.Context) error {
	ctx := c.Request().Context()
	original := c.FormValue("original_slug")
	post, msg := postFromForm(c)
	if msg != "" {
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.AdminForm(views.AdminFormData{
			Page:  a.adminPage(c, "Edit post"),
			Post:  post,
			IsNew: original == "",
			Error: msg,
		}))
	}
	if err := a.Store.SavePost(ctx, post); err != nil {
		return err
	}
	if original != "" && original != post.Slug {
		if err := a.Store.DeletePost(ctx, original); err != nil && !errors.Is(err, content.ErrNotFound) {
			return err
		}
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("Saved "+post.Title+"."))
}

func (a *App) handleAdminDelete(c echo.Context) error {
	err := a.Store.DeletePost(c.Request().Context(), c.Param("slug"))
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return err
	}
	a.Cache.Invalidate()
	if isHTMX(c) {
		// htmx swaps the deleted row out with the empty body
		return c.NoContent(http.StatusOK)
	}
	return a.renderAdminDashboard(c, "Post deleted.")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.GetAllPostsIncludingDrafts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(views.AdminData{
		Page:    a.adminPage(c, "Dashboard"),
		Posts:   posts,
		Message: msg,
	}))
}
