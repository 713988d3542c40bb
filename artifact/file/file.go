// Package file provides a core.ArtifactStore persisting artifacts on the
// local filesystem as <root>/<runID>/<name>.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/eventcrew/artifact"
)

// Store is a filesystem backed artifact store. Writes go to a temporary file
// that is renamed into place, so readers never observe partial artifacts.
type Store struct {
	root string
	perm fs.FileMode
}

// Options configure a Store.
type Options struct {
	// FileMode is applied to artifact files; directories get the execute bits added.
	FileMode fs.FileMode
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{FileMode: 0o644}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(dir, dirMode(opts.FileMode)); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}

	return &Store{root: dir, perm: opts.FileMode}, nil
}

func dirMode(m fs.FileMode) fs.FileMode {
	return m | 0o111 | 0o200
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.root, runID, name)
}

// Save implements core.ArtifactStore.
func (s *Store) Save(_ context.Context, runID, name string, data []byte) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	dir := filepath.Join(s.root, runID)
	if err := os.MkdirAll(dir, dirMode(s.perm)); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.path(runID, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	return nil
}

// Get implements core.ArtifactStore.
func (s *Store) Get(_ context.Context, runID, name string) ([]byte, error) {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, artifact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

// List implements core.ArtifactStore.
func (s *Store) List(_ context.Context, runID string) ([]string, error) {
	if err := artifact.ValidateKey(runID, "list"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, runID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list run %s: %w", runID, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Delete implements core.ArtifactStore.
func (s *Store) Delete(_ context.Context, runID, name string) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	err := os.Remove(s.path(runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return artifact.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}

	return nil
}
