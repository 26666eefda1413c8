// Package deadlink finds links whose targets cannot be resolved in the
// document registry. Detection is purely informational and never mutates
// any document.
package deadlink

import (
	"sort"
	"strings"

	"github.com/starford/ehwaz/internal/models"
)

// maxSuggestions caps the repair hints attached to one dead link.
const maxSuggestions = 3

// idPrefixLen is the shared-prefix length used to find near-miss ids,
// a cheap proxy for typos and truncated timestamp ids.
const idPrefixLen = 4

// DeadLink describes one unresolvable link.
type DeadLink struct {
	Source      string   `json:"source"`            // vault-relative path of the document containing the link
	LinkText    string   `json:"link_text"`         // display text or label, when present
	LinkType    string   `json:"link_type"`         // wikilink, regular_link, or link_ref_def
	Line        int      `json:"line"`              // 1-based line number
	Target      string   `json:"target"`            // the unresolvable target
	Suggestions []string `json:"suggestions,omitempty"` // ordered repair hints, at most 3
}

// Detect scans the link records of every document and reports:
//   - wikilinks whose target id is absent from the registry, with up to
//     three alternative ids sharing a 4-character prefix;
//   - regular links whose URL is empty or whitespace;
//   - link-reference-definitions whose path is empty or whitespace.
func Detect(docs []*models.Document, registry models.Registry) []DeadLink {
	var out []DeadLink
	for _, doc := range docs {
		for _, link := range doc.Links {
			switch link.Type {
			case models.LinkTypeWiki:
				if _, ok := registry.Lookup(link.Target); ok {
					continue
				}
				out = append(out, DeadLink{
					Source:      doc.Path,
					LinkText:    link.Text,
					LinkType:    models.LinkTypeWiki,
					Line:        link.Line,
					Target:      link.Target,
					Suggestions: suggestIDs(link.Target, registry),
				})
			case models.LinkTypeRegular:
				if strings.TrimSpace(link.Target) != "" {
					continue
				}
				out = append(out, DeadLink{
					Source:      doc.Path,
					LinkText:    link.Text,
					LinkType:    models.LinkTypeRegular,
					Line:        link.Line,
					Target:      link.Target,
					Suggestions: []string{"remove the link or fill in its URL"},
				})
			case models.LinkTypeRefDef:
				if strings.TrimSpace(link.Target) != "" {
					continue
				}
				out = append(out, DeadLink{
					Source:      doc.Path,
					LinkText:    link.Text,
					LinkType:    models.LinkTypeRefDef,
					Line:        link.Line,
					Target:      link.Target,
					Suggestions: []string{"remove the definition or fill in its path"},
				})
			}
		}
	}
	return out
}

// suggestIDs returns up to three registered ids sharing a 4-character
// prefix with target, sorted for stable output.
func suggestIDs(target string, registry models.Registry) []string {
	if len(target) < idPrefixLen {
		return nil
	}
	prefix := strings.ToLower(target[:idPrefixLen])

	var out []string
	for _, id := range registry.IDs() {
		if len(id) < idPrefixLen {
			continue
		}
		if strings.ToLower(id[:idPrefixLen]) == prefix {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
