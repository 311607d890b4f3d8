// Package artifacts persists the outputs of a benchmark run: the raw result
// payload, the summary report, the HTML report, and an optional JUnit XML
// export for CI systems.
package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/lomen-org/llm-benchmarks/internal/models"
	"github.com/lomen-org/llm-benchmarks/internal/report"
)

const stampLayout = "20060102_150405"

// Writer writes run artifacts into a directory. Every file in a run shares
// the same timestamp suffix so the pieces of one run sort together.
type Writer struct {
	dir      string
	stamp    string
	compress bool
}

// NewWriter creates the output directory if needed and returns a Writer
// stamped with the run time.
func NewWriter(dir string, runTime time.Time, compress bool) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{
		dir:      dir,
		stamp:    runTime.Format(stampLayout),
		compress: compress,
	}, nil
}

// WriteResults writes the structured result payload as result_<stamp>.json,
// gzip-compressed when the writer was created with compression on.
func (w *Writer) WriteResults(structured []any) (string, error) {
	return w.writeJSON("result", structured)
}

// WriteSummary writes the run summary as summary_<stamp>.json.
func (w *Writer) WriteSummary(summary *models.SummaryReport) (string, error) {
	return w.writeJSON("summary", summary)
}

// WriteReport renders the HTML report as report_<stamp>.html. The report is
// never compressed so it opens directly in a browser.
func (w *Writer) WriteReport(view *report.View, opts report.Options) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("report_%s.html", w.stamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteHTML(f, view, opts); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	slog.Info("wrote HTML report", "path", path)
	return path, nil
}

// WriteJUnit writes a JUnit XML export of the run as junit_<stamp>.xml.
func (w *Writer) WriteJUnit(summary *models.SummaryReport, results []models.TurnResult) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("junit_%s.xml", w.stamp))
	if err := WriteJUnitXML(summary, results, path); err != nil {
		return "", err
	}
	slog.Info("wrote JUnit export", "path", path)
	return path, nil
}

func (w *Writer) writeJSON(prefix string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", prefix, err)
	}

	name := fmt.Sprintf("%s_%s.json", prefix, w.stamp)
	if w.compress {
		name += ".gz"
	}
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if w.compress {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			return "", fmt.Errorf("compressing %s: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("finalizing %s: %w", path, err)
		}
	} else {
		if _, err := f.Write(data); err != nil {
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
	}

	slog.Info("wrote artifact", "path", path)
	return path, nil
}
