// Package vault loads every markdown file of a vault into parsed
// documents and builds the id registry used by linking and dead-link
// detection.
package vault

import (
	"log/slog"
	"time"

	"github.com/starford/ehwaz/internal/checksum"
	"github.com/starford/ehwaz/internal/models"
	"github.com/starford/ehwaz/internal/parser"
	"github.com/starford/ehwaz/internal/storage"
)

// Snapshot is one fully-loaded view of the vault. Documents keep their
// listing order; Registry maps document ids to documents.
type Snapshot struct {
	Documents []*models.Document
	Registry  models.Registry
	// Duplicates lists paths whose id was already registered by an
	// earlier document; the first occurrence wins.
	Duplicates []string
}

// Load reads and parses the whole vault. Files that fail to read or
// parse are logged and skipped so one bad file never aborts a run.
func Load(store storage.Provider, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Registry: make(models.Registry, len(metas))}

	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("vault: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		doc, err := BuildDocument(m.Path, data)
		if err != nil {
			logger.Warn("vault: parse failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		doc.UpdatedAt = m.UpdatedAt
		snap.Documents = append(snap.Documents, doc)

		if doc.ID == "" {
			continue
		}
		if _, taken := snap.Registry[doc.ID]; taken {
			snap.Duplicates = append(snap.Duplicates, doc.Path)
			logger.Warn("vault: duplicate document id",
				slog.String("id", doc.ID),
				slog.String("path", doc.Path))
			continue
		}
		snap.Registry[doc.ID] = doc
	}

	return snap, nil
}

// BuildDocument parses raw bytes into a Document record.
func BuildDocument(path string, data []byte) (*models.Document, error) {
	res, err := parser.Parse(path, data)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		Path:        path,
		ID:          res.ID,
		Title:       res.Title,
		Aliases:     res.Aliases,
		Tags:        res.Tags,
		Frontmatter: res.Frontmatter,
		Body:        res.Body,
		Content:     data,
		Links:       res.Links,
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now(),
	}, nil
}
