// Package snapshot stores the most recent normalization result. A snapshot
// is a value, replaced wholesale on every refresh; there is no incremental
// update model because lane pairing depends on the entire visible window.
package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrolwatch/incident-etl/internal/domain"
)

// ErrEmpty is returned by Latest before the first refresh completes.
var ErrEmpty = errors.New("no snapshot available yet")

// Snapshot is one complete normalization pass over the three sheets.
type Snapshot struct {
	RunID     string           `json:"runId"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Events    []domain.Event   `json:"events"`
	Lanes     domain.LaneStats `json:"lanes"`
}

// Store persists the latest snapshot for the API layer.
type Store interface {
	Put(ctx context.Context, snap Snapshot) error
	Latest(ctx context.Context) (Snapshot, error)
}

// Memory is the default in-process store.
type Memory struct {
	mu       sync.RWMutex
	snap     Snapshot
	hasValue bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Put(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.hasValue = true
	return nil
}

func (m *Memory) Latest(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasValue {
		return Snapshot{}, ErrEmpty
	}
	return m.snap, nil
}
