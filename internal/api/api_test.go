package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/iocache"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const gadBody = `{"instrumentKey":"anxiety_gad7","completedAt":"2025-03-01T09:00:00Z",
"responses":{"q1":2,"q2":2,"q3":2,"q4":2,"q5":2,"q6":2,"q7":2}}`

func newTestRouter(t *testing.T, mgr contract.StoreManager) http.Handler {
	t.Helper()
	cfg := &contract.Config{
		AnswerPolicy: schema.RejectPolicy,
		RiskDefaults: schema.DefaultRiskThresholds(),
		Limit:        50,
	}
	eng, err := service.NewEngine(cfg)
	require.NoError(t, err)
	return NewRouter(cfg, eng, mgr)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) schema.ErrorResponse {
	t.Helper()
	var body schema.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealthAndInstruments(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","instruments":7}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/v1/instruments", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var defs []schema.AssessmentDefinition
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &defs))
	assert.Len(t, defs, 7)

	rr = do(t, h, http.MethodGet, "/api/v1/instruments/stress_pss10", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"key":"stress_pss10"`)

	rr = do(t, h, http.MethodGet, "/api/v1/instruments/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, service.CodeUnknownInstrument, decodeError(t, rr).Code)
}

func TestScoreEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
		ids    []string
	}{
		{"ok", gadBody, http.StatusOK, "", nil},
		{"malformed", `{"instrumentKey":`, http.StatusBadRequest, service.CodeInvalidRequest, nil},
		{"schema", `{"responses":{}}`, http.StatusBadRequest, service.CodeInvalidRequest, nil},
		{"unknown instrument", `{"instrumentKey":"nope","responses":{}}`, http.StatusNotFound, service.CodeUnknownInstrument, []string{"nope"}},
		{
			"missing",
			`{"instrumentKey":"anxiety_gad7","responses":{"q1":1,"q2":1,"q3":1,"q4":1,"q5":1}}`,
			http.StatusUnprocessableEntity, service.CodeMissingResponses, []string{"q6", "q7"},
		},
		{
			"out of range",
			`{"instrumentKey":"anxiety_gad7","responses":{"q1":9,"q2":1,"q3":1,"q4":1,"q5":1,"q6":1,"q7":1}}`,
			http.StatusUnprocessableEntity, service.CodeInvalidResponses, []string{"q1"},
		},
		{
			"unknown question",
			`{"instrumentKey":"anxiety_gad7","responses":{"q1":1,"q2":1,"q3":1,"q4":1,"q5":1,"q6":1,"q7":1,"q99":1}}`,
			http.StatusUnprocessableEntity, service.CodeUnknownQuestions, []string{"q99"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/v1/score", tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.code == "" {
				var rec schema.HistoryRecord
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
				assert.Equal(t, 14.0, rec.Summary.RawScore)
				assert.Equal(t, 66.67, rec.Summary.NormalizedScore)
				return
			}
			body := decodeError(t, rr)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.ids, body.IDs)
		})
	}
}

func TestTrendAndInsightEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/api/v1/trend", `{"instrumentKey":"anxiety_gad7","history":[
		{"score":40,"completedAt":"2025-01-01T00:00:00Z"},{"score":75,"completedAt":"2025-02-01T00:00:00Z"}]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var trend schema.TrendSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &trend))
	assert.Equal(t, schema.RiskHigh, trend.Risk)
	require.NotNil(t, trend.Direction)
	assert.Equal(t, schema.DirectionUp, *trend.Direction)

	rr = do(t, h, http.MethodPost, "/api/v1/trend", `{"instrumentKey":"anxiety_gad7","history":[]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, service.CodeInsufficientHistory, decodeError(t, rr).Code)

	rr = do(t, h, http.MethodPost, "/api/v1/insight", `{"historiesByInstrument":{
		"anxiety_gad7":[{"score":80,"completedAt":"2025-01-01T00:00:00Z"}],
		"wellbeing_wemwbs":[{"score":60,"completedAt":"2025-01-01T00:00:00Z"}]}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var insight schema.WellnessInsight
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &insight))
	require.NotNil(t, insight.CompositeScore)
	assert.Equal(t, 40.0, *insight.CompositeScore)
	assert.Equal(t, []string{"anxiety_gad7", "wellbeing_wemwbs"}, insight.Ranked)
}

func TestUserEndpoints(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("record result", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(store)
		store.On("Record", mock.Anything, mock.MatchedBy(func(r schema.HistoryRecord) bool {
			return r.UserID == "alice" && r.Summary.RawScore == 14
		})).Return(schema.HistoryRecord{ID: "r1", UserID: "alice", InstrumentKey: "anxiety_gad7"}, nil)

		rr := do(t, newTestRouter(t, mgr), http.MethodPost, "/api/v1/users/alice/results", gadBody)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"id":"r1"`)
		store.AssertExpectations(t)
	})

	t.Run("no store configured", func(t *testing.T) {
		rr := do(t, newTestRouter(t, nil), http.MethodPost, "/api/v1/users/alice/results", gadBody)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, service.CodeNoStore, decodeError(t, rr).Code)
	})

	t.Run("insight from store", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(store)
		store.On("Histories", mock.Anything, "alice", 5).Return(map[string][]schema.HistoryRecord{
			"anxiety_gad7": schema.ToRecords("anxiety_gad7", []schema.TrendPoint{{Score: 30, CompletedAt: d1}}),
		}, nil)

		rr := do(t, newTestRouter(t, mgr), http.MethodGet, "/api/v1/users/alice/insight?limit=5", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"ranked":["anxiety_gad7"]`)
		store.AssertExpectations(t)
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := do(t, newTestRouter(t, nil), http.MethodGet, "/api/v1/users/alice/insight?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("trend from store", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(store)
		store.On("History", mock.Anything, "alice", "anxiety_gad7", 50).Return([]schema.HistoryRecord{}, nil)

		rr := do(t, newTestRouter(t, mgr), http.MethodGet, "/api/v1/users/alice/instruments/anxiety_gad7/trend", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, service.CodeInsufficientHistory, decodeError(t, rr).Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(store)
		store.On("Histories", mock.Anything, "alice", 50).Return(nil, errors.New("db gone"))

		rr := do(t, newTestRouter(t, mgr), http.MethodGet, "/api/v1/users/alice/insight", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(service.CodeUnknownInstrument))
	assert.Equal(t, http.StatusNotFound, statusFor(service.CodeInsufficientHistory))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(service.CodeUnknownQuestions))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.CodeInvalidRequest))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(service.CodeNoStore))
	assert.Equal(t, http.StatusInternalServerError, statusFor(service.CodeInternal))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, &contract.Config{ServeAddr: "127.0.0.1:0"}, http.NotFoundHandler())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
