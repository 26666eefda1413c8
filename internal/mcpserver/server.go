// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ehwaz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ehwaz/internal/linkservice"
)

// Server wraps the MCP server with Ehwaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *linkservice.Service
}

// New creates a new MCP server with all Ehwaz tools registered.
func New(svc *linkservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ehwaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through document content, titles, and aliases."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a Markdown document with its metadata and backlinks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. folder/doc.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("autolink_vault",
		mcp.WithDescription("Scan the vault for plain-text mentions of document titles and aliases "+
			"and rewrite them into [[id]] / [[id|alias]] wiki links. Read the link format first via "+
			"the get_link_contract tool or the ehwaz://link-format resource. "+
			"Run with dry_run=true first to preview the changes."),
		mcp.WithBoolean("dry_run", mcp.Description("When true, report what would change without writing any file")),
		mcp.WithNumber("max_links_per_file", mcp.Description("Optional cap on links added per document (0 = configured default)")),
	), s.autolinkVault)

	s.mcp.AddTool(mcp.NewTool("detect_dead_links",
		mcp.WithDescription("Report every link that resolves to nothing: wikilinks to unknown ids, "+
			"regular links with empty URLs, and reference definitions with empty paths. "+
			"Broken wikilinks come with up to three candidate id suggestions."),
	), s.detectDeadLinks)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all documents holding a wikilink to the specified document id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_link_contract",
		mcp.WithDescription("Returns the canonical Ehwaz wiki-link format contract. "+
			"Call this before writing links by hand."),
	), s.getLinkContract)

	// Resource: link format contract.
	s.mcp.AddResource(
		mcp.NewResource("ehwaz://link-format", "Link Format Contract",
			mcp.WithResourceDescription("Canonical wiki-link format that the auto-linker produces and recognizes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) autolinkVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var linkReq linkservice.AutolinkRequest

	dryRun := req.GetBool("dry_run", false)
	linkReq.DryRun = &dryRun

	if max := req.GetInt("max_links_per_file", 0); max > 0 {
		linkReq.MaxLinksPerFile = &max
	}

	res, err := s.svc.Autolink(ctx, linkReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) detectDeadLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dead, err := s.svc.DeadLinks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(dead) == 0 {
		return mcp.NewToolResultText("no dead links found"), nil
	}
	out, _ := json.MarshalIndent(dead, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) getLinkContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkFormatContract), nil
}

func (s *Server) readLinkFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ehwaz://link-format",
			MIMEType: "text/markdown",
			Text:     LinkFormatContract,
		},
	}, nil
}
