package parser

import (
	"testing"

	"github.com/starford/ehwaz/internal/models"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\nid: \"100\"\ntitle: Hello\naliases:\n  - Hi\n  - hello\ntags:\n  - go\n---\n# Hello\nBody text.\n")
	r, err := Parse("notes/hello.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "100" {
		t.Errorf("id = %q, want %q", r.ID, "100")
	}
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	// "hello" equals the title case-insensitively and must be dropped.
	if len(r.Aliases) != 1 || r.Aliases[0] != "Hi" {
		t.Errorf("aliases = %v, want [Hi]", r.Aliases)
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	r, err := Parse("notes/plain.md", []byte("# Just a heading\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if r.ID != "plain" {
		t.Errorf("id = %q, want filename stem %q", r.ID, "plain")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	r, err := Parse("x.md", []byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestParse_LinkLinesAreFileRelative(t *testing.T) {
	// Frontmatter occupies file lines 1-3; the wikilink sits on file
	// line 5. Reports and the link index must point there, not at the
	// stripped body's second line.
	input := []byte("---\nid: \"100\"\n---\nIntro text.\nSee [[200]] here.\n")
	r, err := Parse("notes/a.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Links) != 1 {
		t.Fatalf("links = %+v, want 1", r.Links)
	}
	if r.Links[0].Line != 5 {
		t.Errorf("line = %d, want 5", r.Links[0].Line)
	}
}

func TestParse_FrontmatterMustOpenFile(t *testing.T) {
	// A blank line before the delimiter means no frontmatter; the block
	// stays in the body, matching what the rewriter's zone extractor sees.
	input := []byte("\n---\nid: \"100\"\n---\nBody.\n")
	r, err := Parse("notes/b.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("frontmatter = %v, want nil", r.Frontmatter)
	}
	if r.Body != string(input) {
		t.Errorf("body = %q, want full input", r.Body)
	}
}

func TestExtractLinks_Typed(t *testing.T) {
	body := "See [[100]] and [[200|alias]].\nRead [docs](https://example.com).\n[ref|Ref]: topics/ref.md \"Ref\"\n"
	links := extractLinks("src.md", body, 0)
	if len(links) != 4 {
		t.Fatalf("len(links) = %d, want 4: %+v", len(links), links)
	}
	if links[0].Type != models.LinkTypeWiki || links[0].Target != "100" || links[0].Line != 1 {
		t.Errorf("links[0] = %+v", links[0])
	}
	if links[1].Target != "200" || links[1].Text != "alias" {
		t.Errorf("links[1] = %+v", links[1])
	}
	if links[2].Type != models.LinkTypeRegular || links[2].Target != "https://example.com" || links[2].Line != 2 {
		t.Errorf("links[2] = %+v", links[2])
	}
	if links[3].Type != models.LinkTypeRefDef || links[3].Target != "topics/ref.md" || links[3].Line != 3 {
		t.Errorf("links[3] = %+v", links[3])
	}
}

func TestExtractLinks_SkipsCode(t *testing.T) {
	body := "```\n[[ignored]]\n```\nUse `[[also ignored]]` inline.\nReal [[kept]].\n"
	links := extractLinks("src.md", body, 0)
	if len(links) != 1 || links[0].Target != "kept" {
		t.Errorf("links = %+v, want only [[kept]]", links)
	}
	if links[0].Line != 5 {
		t.Errorf("line = %d, want 5", links[0].Line)
	}
}

func TestExtractTags_InlineAndFrontmatter(t *testing.T) {
	fm := map[string]interface{}{
		"tags": []interface{}{"alpha"},
	}
	tags := extractTags("Some text #beta and #alpha again.", fm)
	if len(tags) != 2 || tags[0] != "alpha" || tags[1] != "beta" {
		t.Errorf("tags = %v, want [alpha beta]", tags)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	fm := map[string]interface{}{"title": "FM Title"}
	if got := deriveTitle(fm, "# H1 Title\ntext"); got != "FM Title" {
		t.Errorf("title = %q, want %q", got, "FM Title")
	}
}

func TestWikiTargets_Dedup(t *testing.T) {
	links := []models.Link{
		{Type: models.LinkTypeWiki, Target: "A"},
		{Type: models.LinkTypeRegular, Target: "http://x"},
		{Type: models.LinkTypeWiki, Target: "A"},
		{Type: models.LinkTypeWiki, Target: "B"},
	}
	got := WikiTargets(links)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("targets = %v, want [A B]", got)
	}
}
