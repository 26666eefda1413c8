// Package batch runs the auto-link pipeline over a whole vault: one
// read-only target index is built up front, documents are linked in
// parallel, changed files are written back with optional backups, and
// alias additions for target documents are merged once at the end.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ehwaz/internal/index"
	"github.com/starford/ehwaz/internal/linker"
	"github.com/starford/ehwaz/internal/models"
	"github.com/starford/ehwaz/internal/storage"
	"github.com/starford/ehwaz/internal/vault"
)

// Progress event names.
const (
	EventStarted   = "batch.started"
	EventDocument  = "document.linked"
	EventCompleted = "batch.completed"
)

// ProgressFunc receives progress events while a batch runs. It is called
// from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(event string, data map[string]any)

// Options controls one batch run.
type Options struct {
	DryRun          bool
	Backup          bool
	MaxFiles        int // 0 = no limit
	MaxLinksPerFile int // 0 = no limit
	MinTargetLength int
	ExcludeTables   bool
	ExcludePatterns []string
	Workers         int // 0 = defaultWorkers
	Progress        ProgressFunc
}

const defaultWorkers = 4

// DocumentResult is the per-document outcome of a batch run.
type DocumentResult struct {
	Path      string               `json:"path"`
	DocID     string               `json:"doc_id,omitempty"`
	Changed   bool                 `json:"changed"`
	Applied   []linker.Replacement `json:"applied,omitempty"`
	Skipped   []linker.Replacement `json:"skipped,omitempty"`
	Conflicts int                  `json:"conflicts"`
}

// Error records a per-document failure. Failures never abort the batch.
type Error struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Result aggregates a whole batch run.
type Result struct {
	Documents      []DocumentResult `json:"documents"`
	Errors         []Error          `json:"errors,omitempty"`
	FilesScanned   int              `json:"files_scanned"`
	FilesProcessed int              `json:"files_processed"`
	FilesChanged   int              `json:"files_changed"`
	LinksAdded     int              `json:"links_added"`
	LinksSkipped   int              `json:"links_skipped"`
	AliasesAdded   int              `json:"aliases_added"`
	DryRun         bool             `json:"dry_run"`
	Duration       time.Duration    `json:"-"`
}

// Runner executes autolink batches against one vault.
type Runner struct {
	store  storage.Provider
	db     index.DocumentIndex // may be nil, re-indexing is then skipped
	logger *slog.Logger
}

// New creates a batch runner. db may be nil for one-shot runs without a
// search index.
func New(store storage.Provider, db index.DocumentIndex, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, db: db, logger: logger}
}

// Run loads the vault, links every document against a target index built
// once from the registry, and writes back the changed files. Per-document
// errors and panics are collected into Result.Errors; only vault-level
// failures (listing the vault itself) return an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	snap, err := vault.Load(r.store, r.logger)
	if err != nil {
		return nil, fmt.Errorf("batch: load vault: %w", err)
	}

	targets := linker.BuildTargetIndex(snap.Registry, opts.MinTargetLength)

	docs := snap.Documents
	scanned := len(docs)
	if opts.MaxFiles > 0 && len(docs) > opts.MaxFiles {
		docs = docs[:opts.MaxFiles]
	}

	emit(opts.Progress, EventStarted, map[string]any{
		"documents": len(docs),
		"targets":   len(targets),
		"dry_run":   opts.DryRun,
	})

	res := &Result{
		Documents:    make([]DocumentResult, len(docs)),
		FilesScanned: scanned,
		DryRun:       opts.DryRun,
	}

	var (
		mu      sync.Mutex
		aliases = make(map[string]map[string]struct{}) // target id -> new aliases
	)

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	linkerOpts := linker.Options{
		ExcludeTables:   opts.ExcludeTables,
		ExtraPatterns:   opts.ExcludePatterns,
		MaxLinksPerFile: opts.MaxLinksPerFile,
	}

	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					mu.Lock()
					res.Errors = append(res.Errors, Error{Path: doc.Path, Err: fmt.Sprintf("panic: %v", p)})
					mu.Unlock()
					r.logger.Error("batch: document panicked",
						slog.String("path", doc.Path),
						slog.Any("panic", p))
				}
			}()

			out := linker.ProcessDocument(string(doc.Content), doc.ID, targets, linkerOpts, r.logger)

			dr := DocumentResult{
				Path:      doc.Path,
				DocID:     doc.ID,
				Changed:   out.Changed,
				Applied:   out.Applied,
				Skipped:   out.Skipped,
				Conflicts: out.ConflictsResolved,
			}

			if out.Changed && !opts.DryRun {
				if err := r.writeBack(doc.Path, []byte(out.Text), opts.Backup); err != nil {
					mu.Lock()
					res.Errors = append(res.Errors, Error{Path: doc.Path, Err: err.Error()})
					mu.Unlock()
					r.logger.Warn("batch: write failed",
						slog.String("path", doc.Path),
						slog.String("error", err.Error()))
					dr.Changed = false
					dr.Applied = nil
					res.Documents[i] = dr
					return nil
				}
			}

			res.Documents[i] = dr

			mu.Lock()
			for _, rep := range out.Applied {
				collectAlias(aliases, snap.Registry, rep.TargetID, rep.Original)
			}
			mu.Unlock()

			emit(opts.Progress, EventDocument, map[string]any{
				"path":    doc.Path,
				"changed": dr.Changed,
				"applied": len(dr.Applied),
			})
			return nil
		})
	}
	_ = g.Wait()

	for _, dr := range res.Documents {
		res.FilesProcessed++
		if dr.Changed {
			res.FilesChanged++
		}
		res.LinksAdded += len(dr.Applied)
		res.LinksSkipped += len(dr.Skipped)
	}

	var aliasPaths []string
	res.AliasesAdded, aliasPaths = r.mergeAliases(snap, aliases, opts, res)

	if !opts.DryRun {
		r.reindex(res, aliasPaths)
	}

	res.Duration = time.Since(start)

	emit(opts.Progress, EventCompleted, map[string]any{
		"files_processed": res.FilesProcessed,
		"files_changed":   res.FilesChanged,
		"links_added":     res.LinksAdded,
		"aliases_added":   res.AliasesAdded,
		"errors":          len(res.Errors),
	})

	r.logger.Info("batch: completed",
		slog.Int("files_processed", res.FilesProcessed),
		slog.Int("files_changed", res.FilesChanged),
		slog.Int("links_added", res.LinksAdded),
		slog.Int("aliases_added", res.AliasesAdded),
		slog.Int("errors", len(res.Errors)),
		slog.Bool("dry_run", opts.DryRun),
		slog.Duration("duration", res.Duration))

	return res, nil
}

func (r *Runner) writeBack(path string, content []byte, backup bool) error {
	if backup {
		if err := r.store.WriteBackup(path); err != nil {
			return fmt.Errorf("batch: backup %s: %w", path, err)
		}
	}
	if err := r.store.Write(path, content); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}

// collectAlias records alias as a pending addition to the target
// document's alias list when the target does not already know it. Must be
// called with the batch mutex held.
func collectAlias(acc map[string]map[string]struct{}, reg models.Registry, targetID, alias string) {
	doc, ok := reg.Lookup(targetID)
	if !ok || alias == "" {
		return
	}
	lower := strings.ToLower(alias)
	if lower == strings.ToLower(doc.Title) || lower == strings.ToLower(doc.ID) {
		return
	}
	for _, a := range doc.Aliases {
		if strings.ToLower(a) == lower {
			return
		}
	}
	set, ok := acc[targetID]
	if !ok {
		set = make(map[string]struct{})
		acc[targetID] = set
	}
	set[alias] = struct{}{}
}

// mergeAliases writes accumulated alias additions into each target
// document's frontmatter, at most one write per document per batch. It
// returns the number of aliases added and the paths it rewrote.
func (r *Runner) mergeAliases(snap *vault.Snapshot, acc map[string]map[string]struct{}, opts Options, res *Result) (int, []string) {
	if len(acc) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	added := 0
	var paths []string
	for _, id := range ids {
		doc, ok := snap.Registry.Lookup(id)
		if !ok {
			continue
		}
		newAliases := make([]string, 0, len(acc[id]))
		for a := range acc[id] {
			newAliases = append(newAliases, a)
		}
		sort.Strings(newAliases)

		if opts.DryRun {
			added += len(newAliases)
			continue
		}

		// Re-read: the target may have been rewritten earlier in this
		// batch.
		content, err := r.store.Read(doc.Path)
		if err != nil {
			res.Errors = append(res.Errors, Error{Path: doc.Path, Err: err.Error()})
			continue
		}
		updated, ok := addAliases(content, newAliases)
		if !ok {
			r.logger.Debug("batch: no frontmatter, alias additions skipped",
				slog.String("path", doc.Path),
				slog.Any("aliases", newAliases))
			continue
		}
		if err := r.writeBack(doc.Path, updated, opts.Backup); err != nil {
			res.Errors = append(res.Errors, Error{Path: doc.Path, Err: err.Error()})
			continue
		}
		added += len(newAliases)
		paths = append(paths, doc.Path)
		r.logger.Info("batch: aliases added",
			slog.String("path", doc.Path),
			slog.Any("aliases", newAliases))
	}
	return added, paths
}

// reindex refreshes index rows for every document the batch touched,
// including targets that only received alias additions.
func (r *Runner) reindex(res *Result, extra []string) {
	if r.db == nil {
		return
	}
	seen := make(map[string]struct{})
	for _, dr := range res.Documents {
		if dr.Changed {
			seen[dr.Path] = struct{}{}
		}
	}
	for _, p := range extra {
		seen[p] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		data, err := r.store.Read(p)
		if err != nil {
			r.logger.Warn("batch: reindex read failed",
				slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		doc, err := vault.BuildDocument(p, data)
		if err != nil {
			r.logger.Warn("batch: reindex parse failed",
				slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if err := r.db.UpsertDocument(index.DocumentRowFor(doc), doc.Body, index.LinkRowsFor(doc)); err != nil {
			r.logger.Warn("batch: reindex upsert failed",
				slog.String("path", p), slog.String("error", err.Error()))
		}
	}
}

func emit(fn ProgressFunc, event string, data map[string]any) {
	if fn != nil {
		fn(event, data)
	}
}
