package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/folio/content"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderStdin(t *testing.T) {
	out, err := run(t, "# Title\n\nSome *text* <script>alert(1)</script>", "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<h1>Title</h1>") || !strings.Contains(out, "<em>text</em>") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script survived rendering: %q", out)
	}
}

func TestRenderFileGoldmark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(path, []byte("| a | b |\n|---|---|\n| 1 | 2 |\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "render", "--engine", "goldmark", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected a GFM table, got %q", out)
	}
}

func TestRenderUnknownEngine(t *testing.T) {
	if _, err := run(t, "", "render", "--engine", "textile"); err == nil {
		t.Fatal("expected an error for an unknown engine")
	}
}

func TestSeed(t *testing.T) {
	db := filepath.Join(t.TempDir(), "blog.db")
	out, err := run(t, "", "seed", "--db", db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "seeded 2 posts") || !strings.Contains(out, "2 total") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = run(t, "", "seed", "--db", db)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out, "seeded 0 posts") || !strings.Contains(out, "2 already present, 2 total") {
		t.Errorf("second seed output: %q", out)
	}

	store, err := content.NewStore(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.GetPostBySlug(context.Background(), "hello-world"); err != nil {
		t.Errorf("seeded post missing: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "folio ") {
		t.Errorf("version output = %q", out)
	}
}
