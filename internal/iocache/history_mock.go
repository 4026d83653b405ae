package iocache

import (
	"context"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// Record implements the HistoryStore interface.
func (m *MockHistoryStore) Record(ctx context.Context, rec schema.HistoryRecord) (schema.HistoryRecord, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(schema.HistoryRecord), args.Error(1)
}

// History implements the HistoryStore interface.
func (m *MockHistoryStore) History(ctx context.Context, userID, instrumentKey string, limit int) ([]schema.HistoryRecord, error) {
	args := m.Called(ctx, userID, instrumentKey, limit)
	records, _ := args.Get(0).([]schema.HistoryRecord)
	return records, args.Error(1)
}

// Histories implements the HistoryStore interface.
func (m *MockHistoryStore) Histories(ctx context.Context, userID string, limit int) (map[string][]schema.HistoryRecord, error) {
	args := m.Called(ctx, userID, limit)
	histories, _ := args.Get(0).(map[string][]schema.HistoryRecord)
	return histories, args.Error(1)
}

// List implements the HistoryStore interface.
func (m *MockHistoryStore) List(ctx context.Context, q schema.HistoryQuery) ([]schema.ResultRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]schema.ResultRow)
	return rows, args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
