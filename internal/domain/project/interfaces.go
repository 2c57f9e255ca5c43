package project

import (
	"context"
	"time"
)

// Repository owns the durable record and the directory scaffold.
// Implementations resolve identifiers to canonical directories; callers
// never address projects by directory name. Storage-level absence is
// reported as repository.ErrNotFound.
type Repository interface {
	// Create allocates an identifier, scaffolds the directory tree,
	// freezes the folder slug, and writes the initial record and title
	// marker.
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	// Get loads the record for id.
	Get(ctx context.Context, id string) (*Record, error)
	// Save rewrites the full record document, last write wins.
	Save(ctx context.Context, rec *Record) error
	// Delete removes the canonical project directory recursively.
	Delete(ctx context.Context, id string) error
	// ListIDs returns the sorted set of identifiers across non-legacy
	// directories.
	ListIDs(ctx context.Context) ([]string, error)
	// WriteTitle mirrors the title into the human-readable marker file.
	WriteTitle(ctx context.Context, id, title string, updatedAt time.Time) error

	// ReadScript and ReadScenes read the loose files directly; both
	// report absence as repository.ErrNotFound. Used for partial-data
	// recovery when the record itself is gone.
	ReadScript(ctx context.Context, id string) (string, error)
	ReadScenes(ctx context.Context, id string) ([]Scene, error)

	// Raw path helpers for generation collaborators. They validate the
	// file name but do not touch the filesystem.
	AssetPath(id, kind, filename string) (string, error)
	RenderPath(id, filename string) (string, error)
	ExportPath(id, filename string) (string, error)
}

// FactComputer derives objective metadata from the project directory.
// The computation is read-only and degrades to absent/zero on any
// single read failure, so it carries no error return.
type FactComputer interface {
	Facts(ctx context.Context, id string) Facts
}

// Migrator merges duplicate project directories. It must run before
// normal traffic begins.
type Migrator interface {
	MigrateDuplicates(ctx context.Context) (MigrationReport, error)
}
