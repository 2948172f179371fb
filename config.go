package folio

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/profile"
	"github.com/eringen/folio/theme"
)

// Content sources.
const (
	SourceStatic = "static"
	SourceSQLite = "sqlite"
	SourceCMS    = "cms"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Folio")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD (default: profile name)

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	Source       string            `yaml:"source"`        // static, sqlite or cms (default static)
	PostsDir     string            `yaml:"posts_dir"`     // markdown directory for the static source; embedded posts when empty
	DatabasePath string            `yaml:"database_path"` // SQLite path (default "data/blog.db")
	CMS          content.CMSConfig `yaml:"cms"`

	Engine       string `yaml:"engine"`       // markdown engine: pipeline or goldmark
	ProfilePath  string `yaml:"profile_path"` // YAML profile; embedded profile when empty
	DefaultTheme string `yaml:"default_theme"`

	AdminPassword string `yaml:"admin_password"` // Required for the sqlite source
	SessionSecret string `yaml:"session_secret"` // Required for the sqlite source
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL   time.Duration `yaml:"post_cache_ttl"`  // default 5m
	BadgeCacheTTL  time.Duration `yaml:"badge_cache_ttl"` // default 6h
	FetchBadges    bool          `yaml:"fetch_badges"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Source == "" {
		c.Source = SourceStatic
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.Engine == "" {
		c.Engine = markdown.EnginePipeline
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = string(theme.Light)
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.BadgeCacheTTL == 0 {
		c.BadgeCacheTTL = 6 * time.Hour
	}
}

// Validate reports configuration errors that would prevent the site from
// starting.
func (c *SiteConfig) Validate() error {
	var errs []error
	switch c.Source {
	case SourceStatic, SourceSQLite, SourceCMS:
	default:
		errs = append(errs, fmt.Errorf("unknown content source %q", c.Source))
	}
	if _, err := markdown.New(c.Engine); err != nil {
		errs = append(errs, err)
	}
	if _, err := theme.Parse(c.DefaultTheme); err != nil {
		errs = append(errs, fmt.Errorf("default theme: %w", err))
	}
	if c.Source == SourceSQLite {
		if c.AdminPassword == "" {
			errs = append(errs, errors.New("AdminPassword is required for the sqlite source"))
		}
		if c.SessionSecret == "" {
			errs = append(errs, errors.New("SessionSecret is required for the sqlite source"))
		}
	}
	if c.Source == SourceCMS && c.CMS.ProjectID == "" && c.CMS.BaseURL == "" {
		errs = append(errs, errors.New("cms.project_id is required for the cms source"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("folio: invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads .env (when present), then the YAML file at path (when
// path is not empty), then applies environment overrides.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("folio: load .env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("folio: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("folio: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	strs := map[string]*string{
		"SITE_NAME":        &c.Name,
		"SITE_URL":         &c.URL,
		"SITE_DESCRIPTION": &c.Description,
		"SITE_AUTHOR":      &c.Author,
		"ADDR":             &c.Addr,
		"CONTENT_SOURCE":   &c.Source,
		"POSTS_DIR":        &c.PostsDir,
		"DATABASE_PATH":    &c.DatabasePath,
		"MARKDOWN_ENGINE":  &c.Engine,
		"PROFILE_PATH":     &c.ProfilePath,
		"DEFAULT_THEME":    &c.DefaultTheme,
		"ADMIN_PASSWORD":   &c.AdminPassword,
		"SESSION_SECRET":   &c.SessionSecret,
		"CMS_PROJECT_ID":   &c.CMS.ProjectID,
		"CMS_DATASET":      &c.CMS.Dataset,
		"CMS_API_VERSION":  &c.CMS.APIVersion,
		"CMS_TOKEN":        &c.CMS.Token,
		"CMS_BASE_URL":     &c.CMS.BaseURL,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"COOKIE_SECURE":   &c.CookieSecure,
		"CMS_USE_CDN":     &c.CMS.UseCDN,
		"FETCH_BADGES":    &c.FetchBadges,
		"METRICS_ENABLED": &c.MetricsEnabled,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("folio: %s: %w", key, err)
		}
		*dst = b
	}
	durations := map[string]*time.Duration{
		"POST_CACHE_TTL":  &c.PostCacheTTL,
		"BADGE_CACHE_TTL": &c.BadgeCacheTTL,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("folio: %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSource replaces the content source selected by SiteConfig.Source.
// Passing a *content.Store enables the admin dashboard.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}

// WithProfile replaces the profile loaded from SiteConfig.ProfilePath.
func WithProfile(p *profile.Profile) Option {
	return func(a *App) {
		a.Profile = p
	}
}

// WithHTTPClient sets the client used for the CMS and badge requests.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}
