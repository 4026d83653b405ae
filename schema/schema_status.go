package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	TotalResults     int              `json:"total_results"`
	TotalUsers       int              `json:"total_users"`
	LatestResultTime time.Time        `json:"latest_result_time"`
	OldestResultTime time.Time        `json:"oldest_result_time"`
	ByInstrument     map[string]int64 `json:"by_instrument"`
}
