// Package badges fetches the third-party cards shown on the home page:
// Credly badges, a GitHub profile and a LinkedIn link card.
//
// Results are cached per key for a TTL. Failures are never cached, so the
// next request retries.
package badges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultCredlyURL   = "https://www.credly.com"
	DefaultGitHubAPI   = "https://api.github.com"
	DefaultLinkedInURL = "https://www.linkedin.com"
	defaultIssuer      = "Credly"
	userAgent          = "folio-badges/1.0"
)

var ErrEmptyID = errors.New("badges: empty id")

type CredlyBadge struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	BadgeURL    string
	IssuerName  string
}

type GitHubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	HTMLURL     string `json:"html_url"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// DisplayName returns Name, or Login when the user has no name set.
func (u *GitHubUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// LinkedInCard is built locally; LinkedIn has no public profile API.
type LinkedInCard struct {
	ProfileID string
	Name      string
	Headline  string
	URL       string
}

type entry struct {
	value   any
	expires time.Time
}

// Client fetches and caches badge data. The zero value is not usable; use
// NewClient.
type Client struct {
	HTTP        *http.Client
	CredlyURL   string
	GitHubAPI   string
	LinkedInURL string
	TTL         time.Duration
	// OnFetch, when set, is called after every upstream request.
	OnFetch func(kind string, err error)

	mu    sync.Mutex
	cache map[string]entry
	now   func() time.Time
}

// NewClient returns a client with production endpoints. A nil httpClient
// gets a 10 second timeout.
func NewClient(httpClient *http.Client, ttl time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		HTTP:        httpClient,
		CredlyURL:   DefaultCredlyURL,
		GitHubAPI:   DefaultGitHubAPI,
		LinkedInURL: DefaultLinkedInURL,
		TTL:         ttl,
		cache:       make(map[string]entry),
		now:         time.Now,
	}
}

func (c *Client) cached(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *Client) store(key string, v any) {
	c.mu.Lock()
	c.cache[key] = entry{value: v, expires: c.now().Add(c.TTL)}
	c.mu.Unlock()
}

func (c *Client) observe(kind string, err error) {
	if c.OnFetch != nil {
		c.OnFetch(kind, err)
	}
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Credly fetches the public badge page and reads its Open Graph tags.
func (c *Client) Credly(ctx context.Context, id string) (*CredlyBadge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}
	key := "credly:" + id
	if v, ok := c.cached(key); ok {
		return v.(*CredlyBadge), nil
	}

	body, err := c.get(ctx, strings.TrimRight(c.CredlyURL, "/")+"/badges/"+url.PathEscape(id), "text/html")
	if err != nil {
		c.observe("credly", err)
		return nil, fmt.Errorf("badges: credly %s: %w", id, err)
	}
	defer body.Close()

	badge, err := ParseCredlyPage(id, body)
	c.observe("credly", err)
	if err != nil {
		return nil, fmt.Errorf("badges: credly %s: %w", id, err)
	}
	c.store(key, badge)
	return badge, nil
}

// CredlyAll fetches ids concurrently. Badges that loaded are returned in
// the order of ids; the error joins every failure.
func (c *Client) CredlyAll(ctx context.Context, ids []string) ([]*CredlyBadge, error) {
	results := make([]*CredlyBadge, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = c.Credly(ctx, id)
		}(i, id)
	}
	wg.Wait()

	out := make([]*CredlyBadge, 0, len(ids))
	for _, b := range results {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, errors.Join(errs...)
}

var reIssuedBy = regexp.MustCompile(`^(.+?) was issued by (.+?) to `)

// ParseCredlyPage extracts badge data from a Credly badge page. The
// og:title has the form "<Badge> was issued by <Issuer> to <Recipient>.";
// other titles are used verbatim with the default issuer.
func ParseCredlyPage(id string, r io.Reader) (*CredlyBadge, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	meta := func(property string) string {
		v, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
		return strings.TrimSpace(v)
	}

	ogTitle := meta("og:title")
	if ogTitle == "" {
		return nil, errors.New("page has no og:title")
	}
	b := &CredlyBadge{
		ID:          id,
		Title:       ogTitle,
		Description: meta("og:description"),
		ImageURL:    meta("og:image"),
		BadgeURL:    meta("og:url"),
		IssuerName:  defaultIssuer,
	}
	if m := reIssuedBy.FindStringSubmatch(ogTitle); m != nil {
		b.Title = strings.TrimSpace(m[1])
		b.IssuerName = strings.TrimSpace(m[2])
	}
	if b.BadgeURL == "" {
		b.BadgeURL = DefaultCredlyURL + "/badges/" + id + "/public_url"
	}
	return b, nil
}

// GitHub fetches a public user profile.
func (c *Client) GitHub(ctx context.Context, username string) (*GitHubUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyID
	}
	key := "github:" + strings.ToLower(username)
	if v, ok := c.cached(key); ok {
		return v.(*GitHubUser), nil
	}

	body, err := c.get(ctx, strings.TrimRight(c.GitHubAPI, "/")+"/users/"+url.PathEscape(username), "application/vnd.github+json")
	if err != nil {
		c.observe("github", err)
		return nil, fmt.Errorf("badges: github %s: %w", username, err)
	}
	defer body.Close()

	var u GitHubUser
	err = json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(&u)
	if err == nil && u.Login == "" {
		err = errors.New("response has no login")
	}
	c.observe("github", err)
	if err != nil {
		return nil, fmt.Errorf("badges: github %s: %w", username, err)
	}
	c.store(key, &u)
	return &u, nil
}

// LinkedIn builds the card for a profile ID. It never makes a request.
func (c *Client) LinkedIn(profileID, name, headline string) LinkedInCard {
	base := c.LinkedInURL
	if base == "" {
		base = DefaultLinkedInURL
	}
	return LinkedInCard{
		ProfileID: profileID,
		Name:      name,
		Headline:  headline,
		URL:       strings.TrimRight(base, "/") + "/in/" + url.PathEscape(profileID),
	}
}
