// Package linkservice is the facade the API, MCP server, and CLI share
// for document reads, search, autolink batches, and dead-link reports.
package linkservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/ehwaz/internal/apperr"
	"github.com/starford/ehwaz/internal/batch"
	"github.com/starford/ehwaz/internal/deadlink"
	"github.com/starford/ehwaz/internal/index"
	"github.com/starford/ehwaz/internal/storage"
	"github.com/starford/ehwaz/internal/vault"
)

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path        string         `json:"path"`
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Aliases     []string       `json:"aliases"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path      string    `json:"path"`
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutolinkRequest carries per-run overrides over the configured batch
// defaults. Nil pointer fields keep the default.
type AutolinkRequest struct {
	DryRun          *bool `json:"dry_run,omitempty"`
	MaxLinksPerFile *int  `json:"max_links_per_file,omitempty"`
	MaxFiles        *int  `json:"max_files_to_process,omitempty"`
}

// Service coordinates storage, index, and the batch linker.
type Service struct {
	store    storage.Provider
	db       index.DocumentIndex
	runner   *batch.Runner
	defaults batch.Options
	logger   *slog.Logger
}

// NewService creates a link service. defaults carries the configured
// batch options, including the progress callback.
func NewService(store storage.Provider, db index.DocumentIndex, runner *batch.Runner, defaults batch.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, db: db, runner: runner, defaults: defaults, logger: logger}
}

// GetDocument reads a document from storage, parses it, and enriches it
// with backlinks.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	doc, err := vault.BuildDocument(path, data)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Path:        doc.Path,
		ID:          doc.ID,
		Title:       doc.Title,
		Aliases:     nonNilSlice(doc.Aliases),
		Content:     string(data),
		Checksum:    doc.Checksum,
		Tags:        nonNilSlice(doc.Tags),
		Frontmatter: doc.Frontmatter,
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   time.Now(),
	}, nil
}

// ListDocuments returns paginated documents with an optional tag filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, tag string) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, tag)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			Path:      r.Path,
			ID:        r.DocID,
			Title:     r.Title,
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Backlinks returns all document paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// Autolink runs one batch over the vault with the configured defaults,
// applying any request overrides.
func (s *Service) Autolink(ctx context.Context, req AutolinkRequest) (*batch.Result, error) {
	opts := s.defaults
	if req.DryRun != nil {
		opts.DryRun = *req.DryRun
	}
	if req.MaxLinksPerFile != nil {
		opts.MaxLinksPerFile = *req.MaxLinksPerFile
	}
	if req.MaxFiles != nil {
		opts.MaxFiles = *req.MaxFiles
	}
	res, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("linkservice: autolink: %w", err)
	}
	return res, nil
}

// DeadLinks loads the vault and reports every link that resolves to
// nothing, with up to three id suggestions per broken wikilink.
func (s *Service) DeadLinks(_ context.Context) ([]deadlink.DeadLink, error) {
	snap, err := vault.Load(s.store, s.logger)
	if err != nil {
		return nil, fmt.Errorf("linkservice: dead links: %w", err)
	}
	return deadlink.Detect(snap.Documents, snap.Registry), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
