package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/lomen-org/llm-benchmarks/internal/models"
	"github.com/lomen-org/llm-benchmarks/internal/report"
)

var (
	headerColor = color.New(color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	failColor   = color.New(color.FgRed)
)

// printRunSummary prints the run's aggregate statistics as a small aligned
// table, followed by the plain-language interpretation.
func printRunSummary(summary *models.SummaryReport) {
	o := summary.Overall

	headerColor.Println("Run summary")
	fmt.Println(strings.Repeat("-", 46))

	printRow("Items", fmt.Sprintf("%d", o.TotalItems))
	printRow("Completed", fmt.Sprintf("%d", o.CompletedItems))
	printRow("Scored", fmt.Sprintf("%d", o.ScoredItems))

	errStr := fmt.Sprintf("%d", o.ErrorItems)
	if o.ErrorItems > 0 {
		errStr = failColor.Sprint(errStr)
	}
	printRow("Errors", errStr)

	printRow("Avg score", colorScore(o.AverageScore))
	printRow("Avg latency", latencyStr(o.AverageLatency))
	printRow("Median latency", latencyStr(o.MedianLatency))
	fmt.Println()

	if len(summary.ConversationSummaries) > 0 {
		headerColor.Println("Conversations")
		ids := make([]string, 0, len(summary.ConversationSummaries))
		for id := range summary.ConversationSummaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cs := summary.ConversationSummaries[id]
			fmt.Printf("  %s %d/%d turns, score %s\n",
				padRight(id, 24), cs.CompletedTurns, cs.TotalTurns, colorScore(cs.AverageScore))
		}
		fmt.Println()
	}

	if o.AverageScore != nil {
		fmt.Println(report.InterpretScore(*o.AverageScore))
	}
	fmt.Println(report.InterpretErrorRate(o.ErrorItems, o.TotalItems))
	fmt.Println()
}

func printRow(label, value string) {
	fmt.Printf("  %s %s\n", padRight(label, 16), value)
}

func colorScore(score *float64) string {
	formatted := report.FormatNumber(score, 4)
	if score == nil {
		return formatted
	}
	switch {
	case *score >= 0.8:
		return okColor.Sprint(formatted)
	case *score >= 0.5:
		return warnColor.Sprint(formatted)
	default:
		return failColor.Sprint(formatted)
	}
}

func latencyStr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return report.FormatNumber(v, 2) + "s"
}

// padRight pads a string to the given display width, wide runes included.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
