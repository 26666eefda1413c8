package linker

import (
	"sort"
	"strings"

	"github.com/starford/ehwaz/internal/models"
)

// SourceType records where a target entry's text came from.
type SourceType string

// Target entry provenance.
const (
	SourceTitle          SourceType = "title"
	SourceAlias          SourceType = "alias"
	SourceTitleVariation SourceType = "title_variation"
	SourceAliasVariation SourceType = "alias_variation"
)

// variationConfidence is the weight given to derived spellings; exact
// titles and aliases always carry 1.0.
const variationConfidence = 0.9

// TargetEntry is one indexable string that candidate discovery can match
// against body text. Text is always lowercased.
type TargetEntry struct {
	Text       string
	DocID      string
	Source     SourceType
	Confidence float64
}

// BuildTargetIndex derives the full list of matchable strings from the
// registry. Entries are ordered by document id, then by provenance, so the
// index is deterministic for a given registry. minLen drops strings too
// short to be safely matched (a 1-2 character title matches everywhere).
//
// The result is an immutable snapshot: it is built once per batch and may
// be shared across workers without locking.
func BuildTargetIndex(reg models.Registry, minLen int) []TargetEntry {
	ids := reg.IDs()
	sort.Strings(ids)

	var out []TargetEntry
	for _, id := range ids {
		doc := reg[id]
		out = appendEntries(out, doc.Title, id, SourceTitle, SourceTitleVariation, minLen)
		for _, alias := range doc.Aliases {
			out = appendEntries(out, alias, id, SourceAlias, SourceAliasVariation, minLen)
		}
	}
	return out
}

// appendEntries adds the exact entry for text plus one entry per derived
// spelling variation.
func appendEntries(out []TargetEntry, text, docID string, exact, derived SourceType, minLen int) []TargetEntry {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len([]rune(text)) < minLen {
		return out
	}
	out = append(out, TargetEntry{Text: text, DocID: docID, Source: exact, Confidence: 1.0})
	for _, v := range Variations(text) {
		if len([]rune(v)) < minLen {
			continue
		}
		out = append(out, TargetEntry{Text: v, DocID: docID, Source: derived, Confidence: variationConfidence})
	}
	return out
}
