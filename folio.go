// Package folio is a personal portfolio and blog server built with Go, Echo
// and templ. It serves a profile page, a blog whose posts come from an
// embedded table, a SQLite store or a headless CMS, and the feeds around
// them (RSS, sitemap, robots.txt, llms.txt).
//
// Sites can replace any page through ViewFuncs; DefaultViews returns the
// built-in pages.
package folio

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/badges"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/profile"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the templ components the handlers render. Replace any
// field to own that page.
type ViewFuncs struct {
	Home           func(views.HomeData) templ.Component
	Blog           func(views.BlogData) templ.Component
	BlogPartial    func(views.BlogData) templ.Component
	Post           func(views.PostData) templ.Component
	PostPartial    func(views.PostData) templ.Component
	AdminLogin     func(views.AdminLoginData) templ.Component
	AdminDashboard func(views.AdminData) templ.Component
	AdminForm      func(views.AdminFormData) templ.Component
	AdminImages    func(views.AdminImagesData) templ.Component
	NotFound       func(views.Page) templ.Component
	ServerError    func(views.Page) templ.Component
}

// DefaultViews returns the built-in pages.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Blog:           views.Blog,
		BlogPartial:    views.BlogPartial,
		Post:           views.Post,
		PostPartial:    views.PostPartial,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminForm:      views.AdminForm,
		AdminImages:    views.AdminImages,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the central folio application. It wires together the content
// source, cache, renderer, handlers, middleware and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Source   content.Source
	Store    *content.Store // non-nil when the source is writable
	Cache    *PostCache
	Profile  *profile.Profile
	Renderer markdown.Renderer
	Badges   *badges.Client
	Metrics  *Metrics
	Views    ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	httpClient   *http.Client
	ready        bool
}

// New creates a folio App. Zero-valued fields of views fall back to the
// built-in pages.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     mergeViews(v, DefaultViews()),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func mergeViews(v, def ViewFuncs) ViewFuncs {
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Blog == nil {
		v.Blog = def.Blog
	}
	if v.BlogPartial == nil {
		v.BlogPartial = def.BlogPartial
	}
	if v.Post == nil {
		v.Post = def.Post
	}
	if v.PostPartial == nil {
		v.PostPartial = def.PostPartial
	}
	if v.AdminLogin == nil {
		v.AdminLogin = def.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = def.AdminDashboard
	}
	if v.AdminForm == nil {
		v.AdminForm = def.AdminForm
	}
	if v.AdminImages == nil {
		v.AdminImages = def.AdminImages
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = def.ServerError
	}
	return v
}

// Setup validates the configuration, opens the content source and
// registers middleware and routes. Start calls it; tests call it directly
// and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	renderer, err := markdown.New(a.Config.Engine)
	if err != nil {
		return fmt.Errorf("folio: %w", err)
	}
	a.Renderer = renderer

	if a.Profile == nil {
		a.Profile = profile.Default()
		if a.Config.ProfilePath != "" {
			p, err := profile.Load(a.Config.ProfilePath)
			if err != nil {
				return fmt.Errorf("folio: %w", err)
			}
			a.Profile = p
		}
	}
	if a.Config.Author == "" {
		a.Config.Author = a.Profile.Name
	}

	if a.Source == nil {
		src, err := a.openSource()
		if err != nil {
			return err
		}
		a.Source = src
	}
	if store, ok := a.Source.(*content.Store); ok {
		a.Store = store
	}

	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = randomSecret()
		a.Echo.Logger.Warn("folio: SessionSecret not set, using a random secret; sessions end on restart")
	}

	a.Cache = NewPostCache(a.Source, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.Metrics = NewMetrics()
	a.Badges = badges.NewClient(a.httpClient, a.Config.BadgeCacheTTL)
	a.Badges.OnFetch = a.Metrics.observeBadgeFetch

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) openSource() (content.Source, error) {
	switch a.Config.Source {
	case SourceSQLite:
		store, err := content.NewStore(a.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("folio: init store: %w", err)
		}
		return store, nil
	case SourceCMS:
		cms, err := content.NewCMS(a.Config.CMS, a.httpClient)
		if err != nil {
			return nil, fmt.Errorf("folio: init cms: %w", err)
		}
		return cms, nil
	default:
		if a.Config.PostsDir != "" {
			src, err := content.LoadDir(a.Config.PostsDir)
			if err != nil {
				return nil, fmt.Errorf("folio: load posts: %w", err)
			}
			return src, nil
		}
		src, err := content.Embedded()
		if err != nil {
			return nil, fmt.Errorf("folio: load embedded posts: %w", err)
		}
		return src, nil
	}
}

// Start sets the app up and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/theme.js", a.handleThemeScript)
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/llms.txt", a.handleLLMs)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.POST("/theme/", a.handleTheme)

	if a.Config.MetricsEnabled {
		e.GET("/metrics", a.Metrics.Handler())
	}

	if a.Store == nil {
		return
	}
	admin := e.Group("/admin")
	admin.GET("/", a.handleAdmin)
	admin.POST("/login/", a.handleAdminLogin)
	admin.POST("/logout/", handleAdminLogout)

	protected := admin.Group("", requireAdmin)
	protected.GET("/post/new/", a.handleAdminNew)
	protected.GET("/post/:slug/", a.handleAdminPost)
	protected.POST("/save/", a.handleAdminSave)
	protected.DELETE("/post/:slug/", a.handleAdminDelete)
	protected.GET("/images/", a.handleImageList)
	protected.POST("/images/upload/", a.handleImageUpload)
	protected.DELETE("/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("folio: read random: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
