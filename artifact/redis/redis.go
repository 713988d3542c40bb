// Package redis provides a core.ArtifactStore backed by Redis. Each artifact
// is a string key <prefix>:<runID>:<name>; a set <prefix>:<runID> indexes the
// names of a run. An optional TTL expires whole runs.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/eventcrew/artifact"
	"github.com/redis/go-redis/v9"
)

// Options configure a Store.
type Options struct {
	// Prefix namespaces all keys.
	Prefix string
	// TTL expires artifacts and the run index (0 = keep forever).
	TTL time.Duration
}

// Store persists artifacts in Redis.
type Store struct {
	client redis.Cmdable
	opts   Options
}

// New creates a Store on top of an existing client.
func New(client redis.Cmdable, optFns ...func(o *Options)) *Store {
	opts := Options{Prefix: "eventcrew:artifacts"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, opts: opts}
}

func (s *Store) indexKey(runID string) string {
	return fmt.Sprintf("%s:%s", s.opts.Prefix, runID)
}

func (s *Store) key(runID, name string) string {
	return fmt.Sprintf("%s:%s:%s", s.opts.Prefix, runID, name)
}

// Save implements core.ArtifactStore.
func (s *Store) Save(ctx context.Context, runID, name string, data []byte) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(runID, name), data, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}

	idx := s.indexKey(runID)
	if err := s.client.SAdd(ctx, idx, name).Err(); err != nil {
		return fmt.Errorf("redis index %s: %w", name, err)
	}

	if s.opts.TTL > 0 {
		if err := s.client.Expire(ctx, idx, s.opts.TTL).Err(); err != nil {
			return fmt.Errorf("redis expire index: %w", err)
		}
	}

	return nil
}

// Get implements core.ArtifactStore.
func (s *Store) Get(ctx context.Context, runID, name string) ([]byte, error) {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.key(runID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, artifact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}

	return data, nil
}

// List implements core.ArtifactStore.
func (s *Store) List(ctx context.Context, runID string) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", runID, err)
	}

	sort.Strings(names)

	return names, nil
}

// Delete implements core.ArtifactStore.
func (s *Store) Delete(ctx context.Context, runID, name string) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	n, err := s.client.Del(ctx, s.key(runID, name)).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", name, err)
	}

	if err := s.client.SRem(ctx, s.indexKey(runID), name).Err(); err != nil {
		return fmt.Errorf("redis unindex %s: %w", name, err)
	}

	if n == 0 {
		return artifact.ErrNotFound
	}

	return nil
}
