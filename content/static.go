package content

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
)

//go:embed posts/*.md
var embeddedPosts embed.FS

// frontMatter is the YAML header of a markdown post file.
type frontMatter struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	ReadingTime string   `yaml:"reading_time"`
	Draft       bool     `yaml:"draft"`
}

// Static serves posts from an in-memory table. It never mutates the table:
// every accessor sorts and returns a copy.
type Static struct {
	posts []BlogPost
}

// NewStatic builds a Static source from posts.
func NewStatic(posts []BlogPost) *Static {
	return &Static{posts: clonePosts(posts)}
}

// Embedded returns the posts shipped with the binary.
func Embedded() (*Static, error) {
	return LoadFS(embeddedPosts, "posts")
}

// LoadDir reads every *.md file in dir.
func LoadDir(dir string) (*Static, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS reads every *.md file in dir of fsys. Each file starts with a YAML
// front matter block; the slug defaults to the file name.
func LoadFS(fsys fs.FS, dir string) (*Static, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", dir, err)
	}
	var posts []BlogPost
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", name, err)
		}
		post, err := ParsePost(strings.TrimSuffix(e.Name(), ".md"), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", name, err)
		}
		if prev, ok := seen[post.Slug]; ok {
			return nil, fmt.Errorf("content: duplicate slug %q in %s and %s", post.Slug, prev, name)
		}
		seen[post.Slug] = name
		posts = append(posts, post)
	}
	return &Static{posts: posts}, nil
}

// ParsePost parses a markdown document with front matter. defaultSlug is
// used when the front matter has no slug.
func ParsePost(defaultSlug string, r io.Reader) (BlogPost, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return BlogPost{}, fmt.Errorf("parse front matter: %w", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return BlogPost{}, fmt.Errorf("missing title")
	}
	slug := fm.Slug
	if slug == "" {
		slug = defaultSlug
	}
	content := strings.TrimSpace(string(body))
	readingTime := fm.ReadingTime
	if readingTime == "" {
		readingTime = ReadingTime(content)
	}
	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogPost{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Tags:        tags,
		Content:     content,
		ReadingTime: readingTime,
		Draft:       fm.Draft,
	}, nil
}

// GetPostBySlug returns the post with slug, drafts included.
func (s *Static) GetPostBySlug(_ context.Context, slug string) (BlogPost, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return clonePosts([]BlogPost{p})[0], nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// GetAllPosts returns published posts, latest first.
func (s *Static) GetAllPosts(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.GetAllPostsIncludingDrafts(ctx)
	if err != nil {
		return nil, err
	}
	return Published(posts), nil
}

// GetAllPostsIncludingDrafts returns every post, latest first.
func (s *Static) GetAllPostsIncludingDrafts(_ context.Context) ([]BlogPost, error) {
	posts := clonePosts(s.posts)
	SortByDate(posts)
	return posts, nil
}
