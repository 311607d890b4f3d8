package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

func scorePtr(v float64) *float64 { return &v }

func writeSummaryFile(t *testing.T, dir, stamp string, summary models.SummaryReport) {
	t.Helper()
	data, err := json.Marshal(summary)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary_"+stamp+".json"), data, 0644))
}

func writeResultFile(t *testing.T, dir, stamp, payload string, compressed bool) {
	t.Helper()
	name := "result_" + stamp + ".json"
	if compressed {
		name += ".gz"
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		zw := gzip.NewWriter(f)
		_, err = zw.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())
		return
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(payload), 0644))
}

func testMux(t *testing.T, dir string) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewFileStore(dir))
	return mux
}

func TestHandleHealth(t *testing.T) {
	mux := testMux(t, t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleRunsListsAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeSummaryFile(t, dir, "20250314_090000", models.SummaryReport{
		RunID:     "older",
		Model:     "model-a",
		Timestamp: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Overall:   models.OverallSummary{TotalItems: 3, ScoredItems: 3, AverageScore: scorePtr(0.9)},
	})
	writeSummaryFile(t, dir, "20250314_100000", models.SummaryReport{
		RunID:     "newer",
		Model:     "model-b",
		Timestamp: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Overall:   models.OverallSummary{TotalItems: 2, ErrorItems: 1, ScoredItems: 1, AverageScore: scorePtr(0.4)},
	})
	mux := testMux(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var runs []RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)

	// Default order: newest first.
	assert.Equal(t, "newer", runs[0].ID)
	assert.Equal(t, "failed", runs[0].Outcome)
	assert.Equal(t, "older", runs[1].ID)
	assert.Equal(t, "passed", runs[1].Outcome)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?sort=score&order=asc", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Equal(t, "newer", runs[0].ID, "lowest score first")
}

func TestHandleRunDetail(t *testing.T) {
	dir := t.TempDir()
	writeSummaryFile(t, dir, "20250314_090000", models.SummaryReport{
		RunID:   "run-1",
		Model:   "model-a",
		Overall: models.OverallSummary{TotalItems: 4, ScoredItems: 3, ErrorItems: 1, AverageScore: scorePtr(0.75)},
		ConversationSummaries: map[string]models.ConversationSummary{
			"c1": {TotalTurns: 2, ScoredTurns: 2, AverageScore: scorePtr(0.8)},
		},
	})
	mux := testMux(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var detail RunDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 4, detail.Overall.TotalItems)
	require.Contains(t, detail.Conversations, "c1")
	assert.Equal(t, 2, detail.Conversations["c1"].TotalTurns)
}

func TestHandleRunDetailNotFound(t *testing.T) {
	mux := testMux(t, t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run not found", resp.Error)
}

func TestHandleRunReport(t *testing.T) {
	dir := t.TempDir()
	stamp := "20250314_090000"
	writeSummaryFile(t, dir, stamp, models.SummaryReport{RunID: "run-1", Model: "model-a"})
	writeResultFile(t, dir, stamp,
		`[{"id":"s1","user_message":"q","actual":"a","latency":1.0,"score":0.9}]`, false)
	mux := testMux(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Successful (1)")
}

func TestHandleRunReportCompressedPayload(t *testing.T) {
	dir := t.TempDir()
	stamp := "20250314_090000"
	writeSummaryFile(t, dir, stamp, models.SummaryReport{RunID: "run-1"})
	writeResultFile(t, dir, stamp,
		`[{"id":"s1","user_message":"q","actual":"a","latency":1.0,"score":0.9}]`, true)
	mux := testMux(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successful (1)")
}

func TestHandleSummaryAggregates(t *testing.T) {
	dir := t.TempDir()
	writeSummaryFile(t, dir, "20250314_090000", models.SummaryReport{
		RunID:   "r1",
		Overall: models.OverallSummary{TotalItems: 4, ErrorItems: 1, AverageScore: scorePtr(0.8)},
	})
	writeSummaryFile(t, dir, "20250314_100000", models.SummaryReport{
		RunID:   "r2",
		Overall: models.OverallSummary{TotalItems: 6, ErrorItems: 0, AverageScore: scorePtr(0.6)},
	})
	mux := testMux(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalRuns)
	assert.Equal(t, 10, resp.TotalItems)
	assert.InDelta(t, 10.0, resp.ErrorRate, 1e-9)
	assert.InDelta(t, 0.7, resp.AverageScore, 1e-9)
}

func TestSummaryEmptyDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))
	resp, err := store.Summary()
	require.NoError(t, err)
	assert.Zero(t, resp.TotalRuns)
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORSMiddleware(inner, "http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
