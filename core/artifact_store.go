package core

import "context"

// ArtifactStore defines the interface for artifact persistence. Artifacts are
// scoped by run identifier so concurrent runs never overwrite each other.
// Implementations must be safe for concurrent use.
type ArtifactStore interface {
	Save(ctx context.Context, runID, name string, data []byte) error
	Get(ctx context.Context, runID, name string) ([]byte, error)
	List(ctx context.Context, runID string) ([]string, error)
	Delete(ctx context.Context, runID, name string) error
}
