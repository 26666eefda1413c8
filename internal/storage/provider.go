// Package storage provides vault file access rooted at a single directory.
package storage

import "github.com/starford/ehwaz/internal/models"

// Provider abstracts vault file access for loading, rewriting, and
// watching markdown documents.
type Provider interface {
	// List walks dir (relative to the vault root, "" for the whole
	// vault) and returns metadata for every .md file.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of a vault file.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of a vault file.
	Write(path string, content []byte) error
	// WriteBackup copies the current content of path to a .bak sibling
	// before a rewrite. Missing files are not an error.
	WriteBackup(path string) error
}
