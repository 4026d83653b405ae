// Package iocache is for persisting scored assessments across runs.
package iocache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
)

// resultsTable holds one row per scored administration.
const resultsTable = "mindscore_results"

// migrationsTable tracks the applied schema version.
const migrationsTable = "mindscore_schema_migrations"

// sqliteTimeFormat is fixed width so that stored strings sort chronologically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryStoreManager manages the HistoryStore instance.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.StoreManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// formatTime converts a time to the representation stored by the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t.UTC()
}

// dbTime scans TEXT and native datetime columns alike.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = v.UTC(), true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value of type %T", src)
	}
}

func (d *dbTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeFormat, time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time, d.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value %q", s)
}
