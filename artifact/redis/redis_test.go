package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/hupe1980/eventcrew/artifact"
	"github.com/hupe1980/eventcrew/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ core.ArtifactStore = (*Store)(nil)

func TestStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db, func(o *Options) { o.TTL = time.Hour })

	mock.ExpectSet("eventcrew:artifacts:run-1:venue_details.json", []byte(`{}`), time.Hour).SetVal("OK")
	mock.ExpectSAdd("eventcrew:artifacts:run-1", "venue_details.json").SetVal(1)
	mock.ExpectExpire("eventcrew:artifacts:run-1", time.Hour).SetVal(true)

	require.NoError(t, s.Save(context.Background(), "run-1", "venue_details.json", []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveWithoutTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db, func(o *Options) { o.Prefix = "test" })

	mock.ExpectSet("test:r:a", []byte("x"), 0).SetVal("OK")
	mock.ExpectSAdd("test:r", "a").SetVal(1)

	require.NoError(t, s.Save(context.Background(), "r", "a", []byte("x")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db)
	mock.ExpectSet("eventcrew:artifacts:r:a", []byte("x"), 0).SetErr(errors.New("connection refused"))

	err := s.Save(context.Background(), "r", "a", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db)

	mock.ExpectGet("eventcrew:artifacts:run-1:marketing_report.md").SetVal("# Report")
	data, err := s.Get(context.Background(), "run-1", "marketing_report.md")
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(data))

	mock.ExpectGet("eventcrew:artifacts:run-1:missing").RedisNil()
	_, err = s.Get(context.Background(), "run-1", "missing")
	assert.ErrorIs(t, err, artifact.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db)
	mock.ExpectSMembers("eventcrew:artifacts:run-1").SetVal([]string{"venue_details.json", "marketing_report.md"})

	names, err := s.List(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"marketing_report.md", "venue_details.json"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	s := New(db)

	mock.ExpectDel("eventcrew:artifacts:r:a").SetVal(1)
	mock.ExpectSRem("eventcrew:artifacts:r", "a").SetVal(1)
	require.NoError(t, s.Delete(context.Background(), "r", "a"))

	mock.ExpectDel("eventcrew:artifacts:r:b").SetVal(0)
	mock.ExpectSRem("eventcrew:artifacts:r", "b").SetVal(0)
	assert.ErrorIs(t, s.Delete(context.Background(), "r", "b"), artifact.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InvalidKey(t *testing.T) {
	db, _ := redismock.NewClientMock()
	s := New(db)

	assert.ErrorIs(t, s.Save(context.Background(), "r", "a:b", nil), artifact.ErrInvalidKey)
}

var _ redis.Cmdable = (*redis.Client)(nil)
