// Package linker implements the auto-link generation engine: exclusion
// zone detection, candidate discovery against a target index, conflict
// resolution among overlapping candidates, and position-safe content
// rewriting into [[id]] / [[id|alias]] wiki links.
//
// The pipeline for one document is strictly linear with immutable
// intermediate values (zones, candidates, resolutions, replacements), so
// documents can be processed in parallel against a shared read-only
// target index.
package linker

import "log/slog"

// Options controls one document's linking pass.
type Options struct {
	ExcludeTables   bool
	ExtraPatterns   []string
	MaxLinksPerFile int
}

// Outcome summarises a full pipeline run over one document.
type Outcome struct {
	Text              string               `json:"-"`
	Changed           bool                 `json:"changed"`
	Candidates        int                  `json:"candidates"`
	Applied           []Replacement        `json:"applied,omitempty"`
	Skipped           []Replacement        `json:"skipped,omitempty"`
	Conflicts         []ConflictResolution `json:"conflicts,omitempty"`
	ConflictsResolved int                  `json:"conflicts_resolved"`
}

// ProcessDocument runs the full pipeline over the raw text of a document:
// zones, candidates, conflict resolution, rewrite. currentID prevents
// self-links. The input text must include any frontmatter so the
// frontmatter zone keeps it untouched.
func ProcessDocument(text, currentID string, index []TargetEntry, opts Options, logger *slog.Logger) Outcome {
	zones := NewZoneExtractor(opts.ExcludeTables, opts.ExtraPatterns, logger).Extract(text)
	candidates := FindCandidates(text, index, zones, currentID)
	resolved, conflicts := ResolveConflicts(candidates)
	res := ApplyReplacements(text, resolved, opts.MaxLinksPerFile)

	return Outcome{
		Text:              res.Text,
		Changed:           len(res.Applied) > 0,
		Candidates:        len(candidates),
		Applied:           res.Applied,
		Skipped:           res.Skipped,
		Conflicts:         conflicts,
		ConflictsResolved: len(conflicts),
	}
}
