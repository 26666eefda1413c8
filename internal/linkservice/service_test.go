package linkservice

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/ehwaz/internal/apperr"
	"github.com/starford/ehwaz/internal/batch"
	"github.com/starford/ehwaz/internal/index"
	"github.com/starford/ehwaz/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	dir, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	logger := quietLogger()
	runner := batch.New(store, db, logger)
	svc := NewService(store, db, runner, batch.Options{Backup: true}, logger)
	return svc, dir
}

func seed(t *testing.T, svc *Service, dir string) {
	t.Helper()
	testutil.WriteDoc(t, dir, "target.md",
		"---\nid: \"100\"\ntitle: Kubernetes\ntags:\n  - infra\n---\n\nOrchestration.\n")
	testutil.WriteDoc(t, dir, "source.md",
		"---\nid: \"200\"\ntitle: Weekly Notes\n---\n\nWe run Kubernetes.\n\nSee [[missing-doc]].\n")
	if err := index.Sync(svc.db.(*index.DB), svc.store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestGetDocument(t *testing.T) {
	svc, dir := testService(t)
	seed(t, svc, dir)

	doc, err := svc.GetDocument(context.Background(), "target.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "Kubernetes" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.ID != "100" {
		t.Errorf("ID = %q", doc.ID)
	}
	if len(doc.Tags) != 1 || doc.Tags[0] != "infra" {
		t.Errorf("Tags = %v", doc.Tags)
	}
	if doc.Backlinks == nil {
		t.Error("Backlinks should be non-nil")
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.GetDocument(context.Background(), "nope.md")
	if err != apperr.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListDocuments(t *testing.T) {
	svc, dir := testService(t)
	seed(t, svc, dir)

	items, total, err := svc.ListDocuments(context.Background(), 10, 0, "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, items = %d, want 2/2", total, len(items))
	}

	items, total, err = svc.ListDocuments(context.Background(), 10, 0, "infra")
	if err != nil {
		t.Fatalf("ListDocuments tag: %v", err)
	}
	if total != 1 || items[0].Path != "target.md" {
		t.Errorf("tag filter: total = %d, items = %+v", total, items)
	}
}

func TestAutolink_AppliesAndOverrides(t *testing.T) {
	svc, dir := testService(t)
	seed(t, svc, dir)

	dry := true
	res, err := svc.Autolink(context.Background(), AutolinkRequest{DryRun: &dry})
	if err != nil {
		t.Fatalf("Autolink dry: %v", err)
	}
	if !res.DryRun || res.LinksAdded != 1 {
		t.Errorf("dry run: DryRun = %v, LinksAdded = %d", res.DryRun, res.LinksAdded)
	}

	res, err = svc.Autolink(context.Background(), AutolinkRequest{})
	if err != nil {
		t.Fatalf("Autolink: %v", err)
	}
	if res.DryRun || res.FilesChanged != 1 {
		t.Errorf("real run: DryRun = %v, FilesChanged = %d", res.DryRun, res.FilesChanged)
	}

	doc, err := svc.GetDocument(context.Background(), "source.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !strings.Contains(doc.Content, "[[100|Kubernetes]]") {
		t.Errorf("source not linked:\n%s", doc.Content)
	}
}

func TestDeadLinks(t *testing.T) {
	svc, dir := testService(t)
	seed(t, svc, dir)

	dead, err := svc.DeadLinks(context.Background())
	if err != nil {
		t.Fatalf("DeadLinks: %v", err)
	}
	if len(dead) != 1 {
		t.Fatalf("dead links = %+v, want 1", dead)
	}
	if dead[0].Target != "missing-doc" || dead[0].Source != "source.md" {
		t.Errorf("dead link = %+v", dead[0])
	}
}

func TestSearchAndBacklinks(t *testing.T) {
	svc, dir := testService(t)
	seed(t, svc, dir)

	results, err := svc.Search(context.Background(), "Orchestration", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "target.md" {
		t.Errorf("Search results = %+v", results)
	}

	if _, err := svc.Autolink(context.Background(), AutolinkRequest{}); err != nil {
		t.Fatalf("Autolink: %v", err)
	}
	bl, err := svc.Backlinks(context.Background(), "100")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 1 || bl[0] != "source.md" {
		t.Errorf("Backlinks = %v", bl)
	}
}
