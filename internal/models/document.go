// Package models defines the domain types for Ehwaz.
package models

import "time"

// Link types as they appear in markdown source.
const (
	LinkTypeWiki    = "wikilink"
	LinkTypeRegular = "regular_link"
	LinkTypeRefDef  = "link_ref_def"
)

// Document represents a parsed Markdown file in the vault.
type Document struct {
	Path        string                 `json:"path"`
	ID          string                 `json:"id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Aliases     []string               `json:"aliases,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Body        string                 `json:"body"`
	Content     []byte                 `json:"-"`
	Links       []Link                 `json:"links,omitempty"`
	Checksum    string                 `json:"checksum"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Link is one parsed link occurrence with its source location.
type Link struct {
	Source string `json:"source"`           // vault-relative path of the document containing the link
	Target string `json:"target"`           // wikilink id, URL, or ref-def path
	Type   string `json:"type"`             // wikilink, regular_link, or link_ref_def
	Text   string `json:"text,omitempty"`   // display text or ref-def label
	Line   int    `json:"line"`             // 1-based line number in the source document
}

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registry maps a document id to its document. It is built once per run
// and treated as read-only for the duration of a batch.
type Registry map[string]*Document

// Lookup returns the document registered under id.
func (r Registry) Lookup(id string) (*Document, bool) {
	d, ok := r[id]
	return d, ok
}

// IDs returns every registered document id.
func (r Registry) IDs() []string {
	out := make([]string, 0, len(r))
	for id := range r {
		out = append(out, id)
	}
	return out
}
