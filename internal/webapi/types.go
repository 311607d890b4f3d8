package webapi

import "time"

// RunSummary is the API response for a single run in the list.
type RunSummary struct {
	ID           string    `json:"id"`
	Model        string    `json:"model"`
	Outcome      string    `json:"outcome"`
	TotalItems   int       `json:"totalItems"`
	ScoredItems  int       `json:"scoredItems"`
	ErrorItems   int       `json:"errorItems"`
	AverageScore *float64  `json:"averageScore"`
	Duration     float64   `json:"duration"`
	Timestamp    time.Time `json:"timestamp"`
}

// RunDetail is the API response for a single run, including the overall
// statistics and the per-conversation summaries.
type RunDetail struct {
	RunSummary
	Overall       OverallStats              `json:"overall"`
	Conversations map[string]ConversationStats `json:"conversations"`
}

// OverallStats mirrors the stored overall summary.
type OverallStats struct {
	TotalItems     int      `json:"totalItems"`
	CompletedItems int      `json:"completedItems"`
	ScoredItems    int      `json:"scoredItems"`
	ErrorItems     int      `json:"errorItems"`
	AverageScore   *float64 `json:"averageScore"`
	AverageLatency *float64 `json:"averageLatency"`
	MedianLatency  *float64 `json:"medianLatency"`
	MinLatency     *float64 `json:"minLatency"`
	MaxLatency     *float64 `json:"maxLatency"`
}

// ConversationStats mirrors a stored per-conversation summary.
type ConversationStats struct {
	TotalTurns     int      `json:"totalTurns"`
	CompletedTurns int      `json:"completedTurns"`
	ScoredTurns    int      `json:"scoredTurns"`
	ErrorTurns     int      `json:"errorTurns"`
	AverageScore   *float64 `json:"averageScore"`
	TotalLatency   *float64 `json:"totalLatency"`
}

// SummaryResponse is the aggregate KPI response across every stored run.
type SummaryResponse struct {
	TotalRuns    int     `json:"totalRuns"`
	TotalItems   int     `json:"totalItems"`
	ErrorRate    float64 `json:"errorRate"`
	AverageScore float64 `json:"averageScore"`
	AvgDuration  float64 `json:"avgDuration"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
