// Package contract has the config, interfaces and shared helpers for the adapters.
package contract

import (
	"context"

	"github.com/huangsam/mindscore/schema"
)

// StoreManager defines the interface for managing history stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore persists scored administrations. It plays the storage role
// around the engine: the engine never calls it.
type HistoryStore interface {
	// Record stores a result, assigns its ID and makes it the latest one
	// for its user and instrument.
	Record(ctx context.Context, rec schema.HistoryRecord) (schema.HistoryRecord, error)

	// History returns up to limit records for one user and instrument, oldest first.
	History(ctx context.Context, userID, instrumentKey string, limit int) ([]schema.HistoryRecord, error)

	// Histories returns the history of every instrument a user has taken.
	Histories(ctx context.Context, userID string, limit int) (map[string][]schema.HistoryRecord, error)

	// List returns raw rows matching the query, newest first.
	List(ctx context.Context, q schema.HistoryQuery) ([]schema.ResultRow, error)

	// Clear deletes the results of one user, or of everyone when userID is empty.
	Clear(ctx context.Context, userID string) (int64, error)

	// GetStatus returns status information about the history store
	GetStatus(ctx context.Context) (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
