// Package profile holds the site owner's profile: the data behind the home
// page, the llms.txt summary and the badge cards.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed profile.yaml
var defaultProfile []byte

type Socials struct {
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	Email    string `yaml:"email"`
	EmailAlt string `yaml:"email_alt"`
}

type Education struct {
	School  string `yaml:"school"`
	Degree  string `yaml:"degree"`
	Date    string `yaml:"date"`
	Details string `yaml:"details"`
}

type Experience struct {
	Company  string `yaml:"company"`
	Role     string `yaml:"role"`
	Date     string `yaml:"date"`
	Location string `yaml:"location"`
	Details  string `yaml:"details"`
}

type Project struct {
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// Badges names the third-party accounts whose cards are shown on the home
// page.
type Badges struct {
	CredlyBadgeIDs []string `yaml:"credly_badge_ids"`
	CredlyUserURL  string   `yaml:"credly_user_url"`
	GitHubUser     string   `yaml:"github_user"`
	LinkedInID     string   `yaml:"linkedin_id"`
}

type Profile struct {
	Name           string       `yaml:"name"`
	Tagline        string       `yaml:"tagline"`
	Location       string       `yaml:"location"`
	Summary        string       `yaml:"summary"`
	Socials        Socials      `yaml:"socials"`
	Education      []Education  `yaml:"education"`
	Experience     []Experience `yaml:"experience"`
	Skills         []string     `yaml:"skills"`
	Certifications []string     `yaml:"certifications"`
	Projects       []Project    `yaml:"projects"`
	TechStack      []string     `yaml:"tech_stack"`
	Badges         Badges       `yaml:"badges"`
}

// Default returns the profile embedded in the binary.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic("profile: embedded profile.yaml: " + err.Error())
	}
	return p
}

// Parse decodes a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parse: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("profile: name is required")
	}
	return &p, nil
}

// Load reads a YAML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return Parse(data)
}

// FirstName returns the first word of Name.
func (p *Profile) FirstName() string {
	if f := strings.Fields(p.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}

// LinkedInURL returns the public profile URL for the configured LinkedIn
// ID, falling back to the socials link.
func (p *Profile) LinkedInURL() string {
	if p.Badges.LinkedInID != "" {
		return "https://www.linkedin.com/in/" + p.Badges.LinkedInID
	}
	return p.Socials.LinkedIn
}
