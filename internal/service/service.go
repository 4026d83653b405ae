// Package service runs engine operations against the history store for the
// CLI, HTTP and MCP adapters.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/core/catalog"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
)

// ErrNoStore is returned when an operation needs the history store but none is configured.
var ErrNoStore = errors.New("history store is not configured")

// ErrUserRequired is returned, wrapped in a contract.RequestError, when a
// result is recorded without a user id.
var ErrUserRequired = errors.New("a user id is required to record results")

// NewEngine builds the registry and engine described by the config.
func NewEngine(cfg *contract.Config) (*core.Engine, error) {
	reg, err := catalog.NewRegistry(cfg.InstrumentFiles...)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	return core.NewEngine(reg,
		core.WithAnswerPolicy(cfg.AnswerPolicy),
		core.WithComposite(cfg.Composite),
		core.WithRiskDefaults(cfg.RiskDefaults),
	), nil
}

// storeOf returns the configured store or ErrNoStore.
func storeOf(mgr contract.StoreManager) (contract.HistoryStore, error) {
	if mgr == nil {
		return nil, ErrNoStore
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return nil, ErrNoStore
	}
	return store, nil
}

// Score scores a request. A missing completion time means now.
func Score(eng *core.Engine, req schema.ScoreRequest) (schema.HistoryRecord, error) {
	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = req.CompletedAt.UTC()
	}
	return eng.ScoreSet(schema.ResponseSet{
		InstrumentKey: req.InstrumentKey,
		Responses:     req.Responses,
		CompletedAt:   completedAt,
	})
}

// ScoreAndRecord scores a request and stores the result for the user.
func ScoreAndRecord(ctx context.Context, eng *core.Engine, mgr contract.StoreManager, userID string, req schema.ScoreRequest) (schema.HistoryRecord, error) {
	if userID == "" {
		return schema.HistoryRecord{}, &contract.RequestError{Kind: contract.ScoreRequestKind, Err: ErrUserRequired}
	}
	store, err := storeOf(mgr)
	if err != nil {
		return schema.HistoryRecord{}, err
	}
	rec, err := Score(eng, req)
	if err != nil {
		return schema.HistoryRecord{}, err
	}
	rec.UserID = userID
	saved, err := store.Record(ctx, rec)
	if err != nil {
		return schema.HistoryRecord{}, fmt.Errorf("record result: %w", err)
	}
	return saved, nil
}

// Trend computes the trend of a request history.
func Trend(eng *core.Engine, req schema.TrendRequest) (schema.TrendSummary, error) {
	return eng.ComputeTrend(req.InstrumentKey, schema.ToRecords(req.InstrumentKey, req.History))
}

// StoredTrend computes the trend of one instrument from the user's stored history.
func StoredTrend(ctx context.Context, eng *core.Engine, mgr contract.StoreManager, userID, key string, limit int) (schema.TrendSummary, error) {
	if _, err := eng.Registry().Get(key); err != nil {
		return schema.TrendSummary{}, err
	}
	store, err := storeOf(mgr)
	if err != nil {
		return schema.TrendSummary{}, err
	}
	history, err := store.History(ctx, userID, key, limit)
	if err != nil {
		return schema.TrendSummary{}, fmt.Errorf("load history: %w", err)
	}
	return eng.ComputeTrend(key, history)
}

// Insight summarizes the histories of a request.
func Insight(eng *core.Engine, req schema.InsightRequest) schema.WellnessInsight {
	return eng.Summarize(req.ToHistories())
}

// StoredInsight summarizes every instrument the user has stored results for.
func StoredInsight(ctx context.Context, eng *core.Engine, mgr contract.StoreManager, userID string, limit int) (schema.WellnessInsight, error) {
	store, err := storeOf(mgr)
	if err != nil {
		return schema.WellnessInsight{}, err
	}
	histories, err := store.Histories(ctx, userID, limit)
	if err != nil {
		return schema.WellnessInsight{}, fmt.Errorf("load histories: %w", err)
	}
	return eng.Summarize(histories), nil
}
