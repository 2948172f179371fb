package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()
	if p.Name == "" || p.Tagline == "" {
		t.Fatalf("default profile missing name or tagline: %+v", p)
	}
	if len(p.Experience) == 0 || len(p.Projects) == 0 {
		t.Error("default profile should have experience and projects")
	}
	if p.Badges.GitHubUser == "" || len(p.Badges.CredlyBadgeIDs) == 0 {
		t.Errorf("default badges incomplete: %+v", p.Badges)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte("name: Jo Doe\nskills: [go, sql]\nsocials:\n  email: jo@example.com\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.FirstName() != "Jo" {
		t.Errorf("FirstName = %q, want Jo", p.FirstName())
	}
	if len(p.Skills) != 2 || p.Skills[1] != "sql" {
		t.Errorf("Skills = %v", p.Skills)
	}
	if p.Socials.Email != "jo@example.com" {
		t.Errorf("Email = %q", p.Socials.Email)
	}
}

func TestParseRequiresName(t *testing.T) {
	if _, err := Parse([]byte("tagline: nobody\n")); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := Parse([]byte("name: Jo\neducation: notalist\n")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("name: Sam\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "Sam" {
		t.Errorf("Name = %q", p.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLinkedInURL(t *testing.T) {
	p := &Profile{Badges: Badges{LinkedInID: "jo"}, Socials: Socials{LinkedIn: "https://example.com/jo"}}
	if got := p.LinkedInURL(); got != "https://www.linkedin.com/in/jo" {
		t.Errorf("LinkedInURL = %q", got)
	}
	p.Badges.LinkedInID = ""
	if got := p.LinkedInURL(); got != "https://example.com/jo" {
		t.Errorf("LinkedInURL fallback = %q", got)
	}
}
