package api

import (
	"github.com/starford/ehwaz/internal/batch"
	"github.com/starford/ehwaz/internal/deadlink"
	"github.com/starford/ehwaz/internal/linkservice"
)

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = linkservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = linkservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// AutolinkRequest is the request body for POST /autolink (aliased from the domain layer).
type AutolinkRequest = linkservice.AutolinkRequest

// AutolinkResponse is the batch result returned by POST /autolink.
type AutolinkResponse = batch.Result

// DeadLinksResponse wraps the dead-link report.
type DeadLinksResponse struct {
	DeadLinks []deadlink.DeadLink `json:"dead_links" validate:"required"`
	Total     int                 `json:"total" example:"3" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"topics/kubernetes.md" validate:"required"`
	Title   string `json:"title" example:"Kubernetes" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphNode is a node in the knowledge graph.
type GraphNode struct {
	ID    string `json:"id" example:"topics/kubernetes.md" validate:"required"`
	Title string `json:"title,omitempty" example:"Kubernetes"`
}

// GraphLink is an edge in the knowledge graph.
type GraphLink struct {
	Source string `json:"source" example:"topics/weekly.md" validate:"required"`
	Target string `json:"target" example:"100" validate:"required"`
}

// GraphResponse wraps the knowledge graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Links []GraphLink `json:"links" validate:"required"`
}
