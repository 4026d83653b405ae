package iocache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func makeRecord(userID, key string, completedAt time.Time, normalized float64) schema.HistoryRecord {
	return schema.HistoryRecord{
		UserID:        userID,
		InstrumentKey: key,
		CompletedAt:   completedAt,
		Summary: schema.ScoreSummary{
			InstrumentKey:          key,
			RawScore:               normalized / 5,
			MaxScore:               20,
			NormalizedScore:        normalized,
			NormalizedScoreRounded: normalized,
			Interpretation:         "Moderate",
			CategoryNormalized:     map[schema.Category]float64{"worry": normalized, "tension": normalized / 2},
		},
	}
}

func newMemoryStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(context.Background(), schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*HistoryStoreImpl)
	require.True(t, ok)
	return impl
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewHistoryStore(ctx, schema.NoneBackend, "")
	require.NoError(t, err)

	rec, err := store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime, 40))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	history, err := store.History(ctx, "u1", "anxiety_gad7", 10)
	assert.NoError(t, err)
	assert.Empty(t, history)

	histories, err := store.Histories(ctx, "u1", 10)
	assert.NoError(t, err)
	assert.Empty(t, histories)

	n, err := store.Clear(ctx, "")
	assert.NoError(t, err)
	assert.Zero(t, n)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(context.Background(), schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestHistoryStore_RecordAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	first, err := store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime, 60))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime.Add(30*24*time.Hour), 75))
	require.NoError(t, err)
	_, err = store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime.Add(60*24*time.Hour), 50))
	require.NoError(t, err)
	_, err = store.Record(ctx, makeRecord("u2", "anxiety_gad7", baseTime, 10))
	require.NoError(t, err)

	history, err := store.History(ctx, "u1", "anxiety_gad7", 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, 60.0, history[0].Score())
	assert.Equal(t, 50.0, history[2].Score())
	assert.True(t, baseTime.Equal(history[0].CompletedAt))
	assert.Equal(t, 30.0, history[0].Summary.CategoryNormalized["tension"])
	assert.Equal(t, 60.0, history[0].Summary.NormalizedScoreRounded)
	assert.Equal(t, "Moderate", history[0].Summary.Interpretation)

	// The limit keeps the newest records, still oldest first
	recent, err := store.History(ctx, "u1", "anxiety_gad7", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 75.0, recent[0].Score())
	assert.Equal(t, 50.0, recent[1].Score())
}

func TestHistoryStore_LatestFlag(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	_, err := store.Record(ctx, makeRecord("u1", "stress_pss10", baseTime, 30))
	require.NoError(t, err)
	newest, err := store.Record(ctx, makeRecord("u1", "stress_pss10", baseTime.Add(48*time.Hour), 35))
	require.NoError(t, err)

	// A late entry for an earlier date does not become the latest
	_, err = store.Record(ctx, makeRecord("u1", "stress_pss10", baseTime.Add(24*time.Hour), 32))
	require.NoError(t, err)

	rows, err := store.List(ctx, schema.HistoryQuery{UserID: "u1", InstrumentKey: "stress_pss10"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	latest := 0
	for _, row := range rows {
		if row.IsLatest {
			latest++
			assert.Equal(t, newest.ID, row.ID)
		}
	}
	assert.Equal(t, 1, latest)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.False(t, rows[0].RecordedAt.IsZero())
}

func TestHistoryStore_RecordRequiresUser(t *testing.T) {
	store := newMemoryStore(t)
	_, err := store.Record(context.Background(), makeRecord("", "anxiety_gad7", baseTime, 10))
	assert.Error(t, err)
}

func TestHistoryStore_HistoriesAndList(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	for i, key := range []string{"stress_pss10", "anxiety_gad7", "anxiety_gad7"} {
		_, err := store.Record(ctx, makeRecord("u1", key, baseTime.Add(time.Duration(i)*time.Hour), float64(10*(i+1))))
		require.NoError(t, err)
	}
	_, err := store.Record(ctx, makeRecord("u2", "trauma_pcl5", baseTime, 5))
	require.NoError(t, err)

	histories, err := store.Histories(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, histories, 2)
	assert.Len(t, histories["anxiety_gad7"], 2)
	assert.Len(t, histories["stress_pss10"], 1)

	all, err := store.List(ctx, schema.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	limited, err := store.List(ctx, schema.HistoryQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "anxiety_gad7", limited[0].InstrumentKey)

	byKey, err := store.List(ctx, schema.HistoryQuery{InstrumentKey: "trauma_pcl5"})
	require.NoError(t, err)
	require.Len(t, byKey, 1)
	assert.Equal(t, "u2", byKey[0].UserID)
}

func TestHistoryStore_ClearAndStatus(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, uint(1), status.SchemaVersion)
	assert.Zero(t, status.TotalResults)

	_, err = store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime, 40))
	require.NoError(t, err)
	_, err = store.Record(ctx, makeRecord("u1", "stress_pss10", baseTime.Add(time.Hour), 40))
	require.NoError(t, err)
	_, err = store.Record(ctx, makeRecord("u2", "anxiety_gad7", baseTime.Add(2*time.Hour), 40))
	require.NoError(t, err)

	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalResults)
	assert.Equal(t, 2, status.TotalUsers)
	assert.Equal(t, int64(2), status.ByInstrument["anxiety_gad7"])
	assert.True(t, baseTime.Equal(status.OldestResultTime))
	assert.True(t, baseTime.Add(2*time.Hour).Equal(status.LatestResultTime))

	n, err := store.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.TotalResults)
}

func TestHistoryStore_FileBackedWithLock(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime, 25))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, dbPath+".lock")

	// Reopening keeps the data and does not re-run migrations
	reopened, err := NewHistoryStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	history, err := reopened.History(ctx, "u1", "anxiety_gad7", 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 25.0, history[0].Score())
}

func TestHistoryStore_CanceledContext(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(context.Background(), schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Record(ctx, makeRecord("u1", "anxiety_gad7", baseTime, 25))
	assert.Error(t, err)
}
