package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CMSConfig configures the headless CMS client. The client speaks the
// Sanity HTTP query API.
type CMSConfig struct {
	ProjectID  string        `yaml:"project_id"`
	Dataset    string        `yaml:"dataset"`
	APIVersion string        `yaml:"api_version"`
	Token      string        `yaml:"token"`
	UseCDN     bool          `yaml:"use_cdn"`
	BaseURL    string        `yaml:"base_url"` // overrides the host derived from ProjectID
	Timeout    time.Duration `yaml:"timeout"`
}

// CMS is a read-only Source backed by the headless CMS.
type CMS struct {
	cfg    CMSConfig
	client *http.Client
}

const postFields = `
  _id,
  _createdAt,
  _updatedAt,
  title,
  slug,
  description,
  date,
  tags,
  readingTime,
  draft,
  content
`

var (
	queryAllPosts          = `*[_type == "post" && draft != true] | order(date desc) {` + postFields + `}`
	queryAllPostsAndDrafts = `*[_type == "post"] | order(date desc) {` + postFields + `}`
	queryPostBySlug        = `*[_type == "post" && slug.current == $slug][0] {` + postFields + `}`
)

// cmsPost mirrors the CMS document schema. Nullable fields are pointers.
type cmsPost struct {
	ID          string   `json:"_id"`
	CreatedAt   string   `json:"_createdAt"`
	UpdatedAt   string   `json:"_updatedAt"`
	Title       string   `json:"title"`
	Slug        cmsSlug  `json:"slug"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	ReadingTime *string  `json:"readingTime"`
	Draft       *bool    `json:"draft"`
	Content     string   `json:"content"`
}

type cmsSlug struct {
	Current string `json:"current"`
}

const defaultReadingTime = "5 min read"

func (p cmsPost) toBlogPost() BlogPost {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	readingTime := defaultReadingTime
	if p.ReadingTime != nil && *p.ReadingTime != "" {
		readingTime = *p.ReadingTime
	}
	return BlogPost{
		Slug:        p.Slug.Current,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Tags:        tags,
		Content:     p.Content,
		ReadingTime: readingTime,
		Draft:       p.Draft != nil && *p.Draft,
	}
}

// NewCMS validates cfg and returns a client. A nil httpClient gets one with
// cfg.Timeout (default 10s).
func NewCMS(cfg CMSConfig, httpClient *http.Client) (*CMS, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, errors.New("content: cms project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-09"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &CMS{cfg: cfg, client: httpClient}, nil
}

func (c *CMS) endpoint() string {
	base := c.cfg.BaseURL
	if base == "" {
		host := "api"
		if c.cfg.UseCDN {
			host = "apicdn"
		}
		base = fmt.Sprintf("https://%s.%s.sanity.io", c.cfg.ProjectID, host)
	}
	return strings.TrimRight(base, "/") + "/v" + strings.TrimPrefix(c.cfg.APIVersion, "v") + "/data/query/" + url.PathEscape(c.cfg.Dataset)
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *queryError     `json:"error"`
}

type queryError struct {
	Description string `json:"description"`
}

// query runs a GROQ query and decodes the result into out. Parameters are
// JSON-encoded as the API expects ($slug="value").
func (c *CMS) query(ctx context.Context, groq string, params map[string]string, out any) error {
	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("content: encode cms param %s: %w", k, err)
		}
		q.Set("$"+k, string(encoded))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint()+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("content: build cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("content: cms query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("content: read cms response: %w", err)
	}
	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return fmt.Errorf("content: cms query: status %d: decode: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if qr.Error != nil && qr.Error.Description != "" {
			msg = qr.Error.Description
		}
		return fmt.Errorf("content: cms query: status %d: %s", resp.StatusCode, msg)
	}
	if len(qr.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Result, out); err != nil {
		return fmt.Errorf("content: decode cms result: %w", err)
	}
	return nil
}

func (c *CMS) list(ctx context.Context, groq string) ([]BlogPost, error) {
	var docs []cmsPost
	if err := c.query(ctx, groq, nil, &docs); err != nil {
		return nil, err
	}
	posts := make([]BlogPost, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toBlogPost())
	}
	return posts, nil
}

// GetAllPosts returns published posts sorted by date, latest first.
func (c *CMS) GetAllPosts(ctx context.Context) ([]BlogPost, error) {
	return c.list(ctx, queryAllPosts)
}

// GetAllPostsIncludingDrafts returns every post sorted by date, latest first.
func (c *CMS) GetAllPostsIncludingDrafts(ctx context.Context) ([]BlogPost, error) {
	return c.list(ctx, queryAllPostsAndDrafts)
}

// GetPostBySlug returns a single post, drafts included.
func (c *CMS) GetPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	var doc *cmsPost
	if err := c.query(ctx, queryPostBySlug, map[string]string{"slug": slug}, &doc); err != nil {
		return BlogPost{}, err
	}
	if doc == nil {
		return BlogPost{}, ErrNotFound
	}
	return doc.toBlogPost(), nil
}
