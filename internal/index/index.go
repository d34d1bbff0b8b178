package index

import "github.com/starford/ley/internal/models"

// Manifest defines the build manifest operations. The builder, the API and
// the MCP server depend on this interface rather than the concrete *DB.
type Manifest interface {
	UpsertPage(p models.Page, body string) error
	DeletePage(source string) error
	GetChecksum(source string) (string, error)
	AllChecksums() (map[string]string, error)
	GetPage(source string) (*models.Page, error)
	ListPages() ([]models.Page, error)
	Backlinks(target string) ([]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies Manifest at compile time.
var _ Manifest = (*DB)(nil)
