package artifact

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// DefaultMaxRuns is the number of runs an InMemoryStore keeps by default.
const DefaultMaxRuns = 1000

// InMemoryOptions configures an InMemoryStore.
type InMemoryOptions struct {
	// MaxRuns bounds the number of runs kept; saving a new run beyond it
	// evicts the oldest run. 0 keeps every run.
	MaxRuns int
}

// InMemoryStore is an in-process ArtifactStore for tests and single-process
// deployments. Data is copied on save and retrieval so callers cannot mutate
// stored buffers.
type InMemoryStore struct {
	mu        sync.RWMutex
	maxRuns   int
	artifacts map[string]map[string][]byte // runID -> name -> data
	runs      []string                     // oldest first
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{MaxRuns: DefaultMaxRuns}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &InMemoryStore{
		maxRuns:   opts.MaxRuns,
		artifacts: make(map[string]map[string][]byte),
	}
}

// Save stores (or overwrites) the artifact bytes for the given run and name.
func (a *InMemoryStore) Save(_ context.Context, runID, name string, data []byte) error {
	if err := ValidateKey(runID, name); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[runID]; !exists {
		if a.maxRuns > 0 && len(a.runs) >= a.maxRuns {
			delete(a.artifacts, a.runs[0])
			a.runs = a.runs[1:]
		}
		a.artifacts[runID] = make(map[string][]byte)
		a.runs = append(a.runs, runID)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.artifacts[runID][name] = cp
	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(_ context.Context, runID, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.artifacts[runID][name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the sorted artifact names stored for the run.
func (a *InMemoryStore) List(_ context.Context, runID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m := a.artifacts[runID]
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(_ context.Context, runID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.artifacts[runID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[name]; !ok {
		return ErrNotFound
	}
	delete(m, name)
	if len(m) == 0 {
		delete(a.artifacts, runID)
		if i := slices.Index(a.runs, runID); i >= 0 {
			a.runs = slices.Delete(a.runs, i, i+1)
		}
	}
	return nil
}
