package artifacts

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one benchmark run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one prompt or conversation turn.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a low-scoring answer.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents an execution or evaluation error.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a case whose answer was never scored.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// failingScore is the score below which a cleanly-scored case counts as a
// JUnit failure. It matches the lower band of the report's score badges.
const failingScore = 0.5

// ConvertToJUnit converts a run summary and its results to JUnit XML types.
// Execution and evaluation errors map to <error>, scores under the failing
// threshold map to <failure>, and unscored cases map to <skipped>.
func ConvertToJUnit(summary *models.SummaryReport, results []models.TurnResult) *JUnitTestSuites {
	suiteName := summary.RunID
	if suiteName == "" {
		suiteName = "benchmark"
	}

	suite := JUnitTestSuite{
		Name:      suiteName,
		Tests:     len(results),
		Timestamp: summary.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "model", Value: summary.Model},
			{Name: "scored_items", Value: fmt.Sprintf("%d", summary.Overall.ScoredItems)},
		},
	}
	if summary.Overall.AverageScore != nil {
		suite.Properties = append(suite.Properties, JUnitProperty{
			Name: "average_score", Value: fmt.Sprintf("%.4f", *summary.Overall.AverageScore),
		})
	}

	for i := range results {
		tc := convertResult(&results[i])
		if tc.Failure != nil {
			suite.Failures++
		}
		if tc.Error != nil {
			suite.Errors++
		}
		if tc.Skipped != nil {
			suite.Skipped++
		}
		if tc.Time > 0 {
			suite.Time += tc.Time
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func convertResult(r *models.TurnResult) JUnitTestCase {
	classname := "single_prompt"
	if r.ConversationID != "" {
		classname = r.ConversationID
	}

	tc := JUnitTestCase{
		Name:      r.ID,
		Classname: classname,
	}
	if r.Latency != nil {
		tc.Time = *r.Latency
	}

	switch {
	case r.Error != nil:
		tc.Error = &JUnitError{
			Message: *r.Error,
			Type:    "ExecutionError",
		}
	case r.EvalError != nil:
		tc.Error = &JUnitError{
			Message: *r.EvalError,
			Type:    "EvaluationError",
			Body:    reasoningOf(r),
		}
	case r.Score == nil:
		tc.Skipped = &JUnitSkipped{Message: "no score assigned"}
	case *r.Score < failingScore:
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: score=%.2f", r.ID, *r.Score),
			Type:    "LowScore",
			Body:    reasoningOf(r),
		}
	}
	return tc
}

func reasoningOf(r *models.TurnResult) string {
	if r.ScoreReasoning != nil {
		return *r.ScoreReasoning
	}
	return ""
}

// WriteJUnitXML writes the JUnit export to the given path.
func WriteJUnitXML(summary *models.SummaryReport, results []models.TurnResult, path string) error {
	suites := ConvertToJUnit(summary, results)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
