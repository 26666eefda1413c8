package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ehwaz/internal/batch"
	"github.com/starford/ehwaz/internal/index"
	"github.com/starford/ehwaz/internal/linkservice"
	"github.com/starford/ehwaz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testutil.WriteDoc(t, dir, "target.md",
		"---\nid: \"100\"\ntitle: Kubernetes\n---\n\nOrchestration platform.\n")
	testutil.WriteDoc(t, dir, "source.md",
		"---\nid: \"200\"\ntitle: Weekly Notes\n---\n\nWe run Kubernetes.\n\nSee [[missing-doc]].\n")
	if err := index.Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}

	runner := batch.New(store, db, logger)
	svc := linkservice.NewService(store, db, runner, batch.Options{}, logger)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so the tool
	// handler functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_documents":
		result, err = srv.searchDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "autolink_vault":
		result, err = srv.autolinkVault(ctx, req)
	case "detect_dead_links":
		result, err = srv.detectDeadLinks(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_link_contract":
		result, err = srv.getLinkContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchDocuments(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "Orchestration"})
	text := resultText(r)
	if !strings.Contains(text, "target.md") {
		t.Errorf("search result = %q", text)
	}
}

func TestReadDocument(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "target.md"})
	text := resultText(r)
	if !strings.Contains(text, `"title": "Kubernetes"`) {
		t.Errorf("read result = %q", text)
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestAutolinkVault_DryRun(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "autolink_vault", map[string]interface{}{"dry_run": true})
	text := resultText(r)
	if !strings.Contains(text, `"dry_run": true`) {
		t.Errorf("autolink result = %q", text)
	}
	if !strings.Contains(text, `"links_added": 1`) {
		t.Errorf("autolink should find one link: %q", text)
	}

	// The vault itself must stay untouched.
	r = callTool(t, srv, "read_document", map[string]interface{}{"path": "source.md"})
	if strings.Contains(resultText(r), "[[100|") {
		t.Error("dry run modified the vault")
	}
}

func TestAutolinkVault_Applies(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "autolink_vault", map[string]interface{}{})

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "source.md"})
	if !strings.Contains(resultText(r), "[[100|Kubernetes]]") {
		t.Errorf("vault not linked: %q", resultText(r))
	}
}

func TestDetectDeadLinks(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "detect_dead_links", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "missing-doc") {
		t.Errorf("dead links = %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "autolink_vault", map[string]interface{}{})

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"id": "100"})
	if resultText(r) != "source.md" {
		t.Errorf("backlinks = %q, want source.md", resultText(r))
	}
}

func TestGetBacklinks_None(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"id": "999"})
	if resultText(r) != "no backlinks found" {
		t.Errorf("backlinks = %q", resultText(r))
	}
}

func TestGetLinkContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_link_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "[[100|Kubernetes]]") {
		t.Errorf("contract missing link syntax: %q", text)
	}
}
