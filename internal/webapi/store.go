// Package webapi exposes stored benchmark runs over a small REST API and
// renders their HTML reports on demand.
package webapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// ErrRunNotFound is returned when a run ID does not match any stored run.
var ErrRunNotFound = errors.New("run not found")

// RunStore provides access to stored benchmark run data.
type RunStore interface {
	// ListRuns returns all runs, sorted by the given field and order.
	ListRuns(sortField, order string) ([]RunSummary, error)
	// GetRun returns a single run with its full statistics.
	GetRun(id string) (*RunDetail, error)
	// ResultPayload returns the raw result JSON for a run.
	ResultPayload(id string) ([]byte, error)
	// Summary returns aggregate metrics across all runs.
	Summary() (*SummaryResponse, error)
}

var summaryFileRe = regexp.MustCompile(`^summary_(\d{8}_\d{6})\.json(\.gz)?$`)

type storedRun struct {
	summary *models.SummaryReport
	stamp   string
}

// FileStore reads run artifacts from a directory: summary_<stamp>.json files
// for the run list and the matching result_<stamp>.json payload for report
// rendering. Compressed artifacts are handled transparently.
type FileStore struct {
	dir string

	mu      sync.RWMutex
	runs    map[string]storedRun
	loaded  bool
	loadErr error
}

// NewFileStore creates a FileStore that reads artifacts from dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:  dir,
		runs: make(map[string]storedRun),
	}
}

// load reads every summary file from the configured directory.
func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.runs = make(map[string]storedRun)

	if fs.dir == "" {
		fs.loaded = true
		return nil
	}

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			fs.loaded = true
			return nil
		}
		fs.loadErr = err
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := summaryFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		data, err := readArtifact(filepath.Join(fs.dir, e.Name()))
		if err != nil {
			continue
		}
		var summary models.SummaryReport
		if err := json.Unmarshal(data, &summary); err != nil {
			continue
		}
		id := summary.RunID
		if id == "" {
			// Use the timestamp stamp as fallback ID.
			id = m[1]
		}
		fs.runs[id] = storedRun{summary: &summary, stamp: m[1]}
	}

	fs.loaded = true
	fs.loadErr = nil
	return nil
}

// readArtifact reads a possibly gzip-compressed artifact file.
func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// ensureLoaded loads data if not already loaded.
func (fs *FileStore) ensureLoaded() error {
	fs.mu.RLock()
	if fs.loaded {
		fs.mu.RUnlock()
		return nil
	}
	fs.mu.RUnlock()
	return fs.load()
}

// Reload forces a fresh reload of all artifact files from disk.
func (fs *FileStore) Reload() error {
	return fs.load()
}

func runToSummary(id string, r storedRun) RunSummary {
	o := r.summary.Overall
	outcome := "passed"
	if o.ErrorItems > 0 {
		outcome = "failed"
	}

	duration := 0.0
	if o.AverageLatency != nil {
		duration = *o.AverageLatency * float64(o.TotalItems)
	}

	return RunSummary{
		ID:           id,
		Model:        r.summary.Model,
		Outcome:      outcome,
		TotalItems:   o.TotalItems,
		ScoredItems:  o.ScoredItems,
		ErrorItems:   o.ErrorItems,
		AverageScore: o.AverageScore,
		Duration:     duration,
		Timestamp:    r.summary.Timestamp,
	}
}

func runToDetail(id string, r storedRun) *RunDetail {
	o := r.summary.Overall
	detail := &RunDetail{
		RunSummary: runToSummary(id, r),
		Overall: OverallStats{
			TotalItems:     o.TotalItems,
			CompletedItems: o.CompletedItems,
			ScoredItems:    o.ScoredItems,
			ErrorItems:     o.ErrorItems,
			AverageScore:   o.AverageScore,
			AverageLatency: o.AverageLatency,
			MedianLatency:  o.MedianLatency,
			MinLatency:     o.MinLatency,
			MaxLatency:     o.MaxLatency,
		},
		Conversations: make(map[string]ConversationStats, len(r.summary.ConversationSummaries)),
	}
	for cid, cs := range r.summary.ConversationSummaries {
		detail.Conversations[cid] = ConversationStats{
			TotalTurns:     cs.TotalTurns,
			CompletedTurns: cs.CompletedTurns,
			ScoredTurns:    cs.ScoredTurns,
			ErrorTurns:     cs.ErrorTurns,
			AverageScore:   cs.AverageScore,
			TotalLatency:   cs.TotalLatency,
		}
	}
	return detail
}

// ListRuns returns all runs sorted by the given field and order.
func (fs *FileStore) ListRuns(sortField, order string) ([]RunSummary, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	runs := make([]RunSummary, 0, len(fs.runs))
	for id, r := range fs.runs {
		runs = append(runs, runToSummary(id, r))
	}

	sortRuns(runs, sortField, order)
	return runs, nil
}

// GetRun returns a single run with its full statistics.
func (fs *FileStore) GetRun(id string) (*RunDetail, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	r, ok := fs.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return runToDetail(id, r), nil
}

// ResultPayload returns the result_<stamp>.json payload matching the run's
// summary file, decompressed if needed.
func (fs *FileStore) ResultPayload(id string) ([]byte, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	r, ok := fs.runs[id]
	fs.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}

	for _, name := range []string{
		fmt.Sprintf("result_%s.json", r.stamp),
		fmt.Sprintf("result_%s.json.gz", r.stamp),
	} {
		data, err := readArtifact(filepath.Join(fs.dir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("result payload for run %s: %w", id, ErrRunNotFound)
}

// Summary returns aggregate metrics across all runs.
func (fs *FileStore) Summary() (*SummaryResponse, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	resp := &SummaryResponse{}
	if len(fs.runs) == 0 {
		return resp, nil
	}

	totalErrors := 0
	totalDuration := 0.0
	scoreSum := 0.0
	scoredRuns := 0

	for id, r := range fs.runs {
		resp.TotalRuns++
		s := runToSummary(id, r)
		resp.TotalItems += s.TotalItems
		totalErrors += s.ErrorItems
		totalDuration += s.Duration
		if s.AverageScore != nil {
			scoreSum += *s.AverageScore
			scoredRuns++
		}
	}

	if resp.TotalItems > 0 {
		resp.ErrorRate = float64(totalErrors) / float64(resp.TotalItems) * 100.0
	}
	if scoredRuns > 0 {
		resp.AverageScore = scoreSum / float64(scoredRuns)
	}
	if resp.TotalRuns > 0 {
		resp.AvgDuration = totalDuration / float64(resp.TotalRuns)
	}

	return resp, nil
}

func sortRuns(runs []RunSummary, field, order string) {
	less := func(i, j int) bool {
		switch field {
		case "score":
			return scoreOf(runs[i]) < scoreOf(runs[j])
		case "errors":
			return runs[i].ErrorItems < runs[j].ErrorItems
		case "duration":
			return runs[i].Duration < runs[j].Duration
		default: // "timestamp" or empty
			if runs[i].Timestamp.Equal(runs[j].Timestamp) {
				return runs[i].ID < runs[j].ID
			}
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
	}

	if order == "asc" {
		sort.Slice(runs, less)
	} else {
		sort.Slice(runs, func(i, j int) bool { return less(j, i) })
	}
}

func scoreOf(r RunSummary) float64 {
	if r.AverageScore == nil {
		return -1
	}
	return *r.AverageScore
}

// Ensure FileStore satisfies RunStore.
var _ RunStore = (*FileStore)(nil)
