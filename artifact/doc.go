// Package artifact contains implementations of core.ArtifactStore.
//
// The interface lives in the core package; this package holds the in-memory
// store plus shared helpers, while sub-packages provide durable backends
// (file, s3, redis) that can be swapped without touching calling code.
// Artifacts are scoped by run ID so concurrent runs never overwrite each
// other.
package artifact
