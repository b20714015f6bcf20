// Package repository holds the loaded dataset behind an atomically
// published snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/acadash/internal/domain/dataset"
)

// Loader produces a fresh dataset, typically by reading a file.
type Loader interface {
	Path() string
	Read(ctx context.Context) (*dataset.Dataset, error)
}

// Snapshot is an immutable view of one successful load.
type Snapshot struct {
	Dataset  *dataset.Dataset
	Source   string
	Version  uint64
	LoadedAt time.Time
	Took     time.Duration
}

// Store provides access to the current dataset snapshot.
type Store interface {
	// Load reads the dataset through l and publishes it. The previous
	// snapshot stays visible when loading fails.
	Load(ctx context.Context, l Loader) (*Snapshot, error)

	// Snapshot returns the current snapshot or ErrNotLoaded.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Count returns the number of rows in the current snapshot.
	Count(ctx context.Context) int
}
