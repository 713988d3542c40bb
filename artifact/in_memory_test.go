package artifact

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/eventcrew/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	data := []byte("hello")
	require.NoError(t, store.Save(ctx, "r1", "a1", data))

	data[0] = 'H'
	out, err := store.Get(ctx, "r1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out[0] = 'x'
	out2, _ := store.Get(ctx, "r1", "a1")
	assert.Equal(t, "hello", string(out2))
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Save(ctx, "r1", "b", []byte("2")))
	require.NoError(t, store.Save(ctx, "r1", "a", []byte("1")))

	names, err := store.List(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "r1", "a"))
	assert.ErrorIs(t, store.Delete(ctx, "r1", "a"), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing", "a"), ErrNotFound)

	_, err = store.Get(ctx, "r1", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err = store.List(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestInMemoryStore_RunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Save(ctx, "r1", "venue_details.json", []byte("berlin")))
	require.NoError(t, store.Save(ctx, "r2", "venue_details.json", []byte("paris")))

	a, _ := store.Get(ctx, "r1", "venue_details.json")
	b, _ := store.Get(ctx, "r2", "venue_details.json")
	assert.Equal(t, "berlin", string(a))
	assert.Equal(t, "paris", string(b))
}

func TestInMemoryStore_EvictsOldestRun(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.MaxRuns = 2 })

	require.NoError(t, store.Save(ctx, "r1", "a", []byte("1")))
	require.NoError(t, store.Save(ctx, "r2", "a", []byte("2")))
	require.NoError(t, store.Save(ctx, "r2", "b", []byte("2b")))
	require.NoError(t, store.Save(ctx, "r3", "a", []byte("3")))

	_, err := store.Get(ctx, "r1", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, runID := range []string{"r2", "r3"} {
		_, err := store.Get(ctx, runID, "a")
		assert.NoError(t, err, runID)
	}

	// a deleted run frees its slot
	require.NoError(t, store.Delete(ctx, "r3", "a"))
	require.NoError(t, store.Save(ctx, "r4", "a", []byte("4")))
	_, err = store.Get(ctx, "r2", "b")
	assert.NoError(t, err)
}

func TestInMemoryStore_Unbounded(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.MaxRuns = 0 })

	for i := 0; i < DefaultMaxRuns+10; i++ {
		require.NoError(t, store.Save(ctx, fmt.Sprintf("run-%d", i), "a", []byte("x")))
	}

	_, err := store.Get(ctx, "run-0", "a")
	assert.NoError(t, err)
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			runID := fmt.Sprintf("run-%d", i%5)
			name := fmt.Sprintf("a%d", i)
			assert.NoError(t, store.Save(ctx, runID, name, []byte(name)))
			_, _ = store.Get(ctx, runID, name)
			_, _ = store.List(ctx, runID)
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 5; i++ {
		names, _ := store.List(ctx, fmt.Sprintf("run-%d", i))
		total += len(names)
	}
	assert.Equal(t, 50, total)
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("run-1", "venue_details.json"))
	for _, bad := range [][2]string{{"", "a"}, {"r", ""}, {"..", "a"}, {"r", "../x"}, {"r", `a\b`}, {"r", "a:b"}} {
		assert.ErrorIs(t, ValidateKey(bad[0], bad[1]), ErrInvalidKey, "%q", bad)
	}

	assert.ErrorIs(t, NewInMemoryStore().Save(context.Background(), "r", "../x", nil), ErrInvalidKey)
}
