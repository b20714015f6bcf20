package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/acadash/pkg/metrics"
)

// SnapshotStore is an in-memory Store. Readers never block; loads are
// serialized so versions increase monotonically.
type SnapshotStore struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	version  uint64
	now      func() time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *SnapshotStore) Load(ctx context.Context, l Loader) (*Snapshot, error) {
	if l == nil {
		return nil, ErrNilLoader
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	ds, err := l.Read(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, l.Path(), err)
	}
	took := s.now().Sub(start)

	s.version++
	snap := &Snapshot{
		Dataset:  ds,
		Source:   l.Path(),
		Version:  s.version,
		LoadedAt: s.now(),
		Took:     took,
	}
	s.snapshot.Store(snap)
	metrics.RecordDatasetLoad(ds.Len(), ds.Schema().Len(), took)
	return snap, nil
}

// Snapshot implements Store.
func (s *SnapshotStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Count implements Store.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return snap.Dataset.Len()
}
