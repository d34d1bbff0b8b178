// Package models defines the domain types shared by the builder, the
// manifest and the outer surfaces.
package models

import "time"

// Source is a Ley file found in the source tree.
type Source struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Page is a built page as recorded in the manifest.
type Page struct {
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Date     string    `json:"date"`
	Checksum string    `json:"checksum"`
	Links    []string  `json:"links,omitempty"`
	BuiltAt  time.Time `json:"built_at"`
}
