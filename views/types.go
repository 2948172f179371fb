package views

import (
	"html/template"

	"github.com/eringen/folio/badges"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/profile"
)

// Site holds site-wide settings. Every handler passes this to templates so
// nothing is hardcoded.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// Meta carries per-page OpenGraph and SEO metadata into the <head> template.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website", "article" or "profile"
	Image       string
}

// Page is embedded in every view model.
type Page struct {
	Site        Site
	Meta        Meta
	Path        string
	Theme       string
	CSRF        string
	ThemeScript template.JS
	JSONLD      template.JS
	IsAdmin     bool
}

type HomeData struct {
	Page
	Profile  *profile.Profile
	Posts    []content.BlogPost
	Badges   []*badges.CredlyBadge
	GitHub   *badges.GitHubUser
	LinkedIn badges.LinkedInCard
}

type BlogData struct {
	Page
	Posts     []content.BlogPost
	Tags      []string
	ActiveTag string
}

type PostData struct {
	Page
	Post content.BlogPost
	// Body is the rendered, sanitized post body.
	Body    template.HTML
	Related []content.BlogPost
}

type AdminLoginData struct {
	Page
	ShowError bool
	Locked    bool
}

type AdminData struct {
	Page
	Posts   []content.BlogPost
	Message string
}

type AdminFormData struct {
	Page
	Post  content.BlogPost
	IsNew bool
	Error string
}

type AdminImagesData struct {
	Page
	Images []content.Image
}
