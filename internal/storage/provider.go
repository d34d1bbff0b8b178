// Package storage defines the file-system abstraction used for both the
// source tree and the output site.
package storage

import "github.com/starford/ley/internal/models"

// Provider is the interface for tree file operations. All paths are relative
// to the provider root.
type Provider interface {
	// Root returns the absolute path of the tree.
	Root() string
	// List returns metadata for every file under dir whose name ends in ext.
	List(dir, ext string) ([]models.Source, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
