package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// Options controls optional report content.
type Options struct {
	// Title is the page title. Defaults to "LLM Benchmark Report".
	Title string
	// Summary, when set, adds an overview panel with aggregate statistics
	// and a plain-language interpretation.
	Summary *models.OverallSummary
	// GeneratedAt stamps the report header. Zero means omit.
	GeneratedAt time.Time
}

// pageData is the root object handed to the report template.
type pageData struct {
	Title          string
	GeneratedAt    string
	View           *View
	Summary        *models.OverallSummary
	Interpretation template.HTML
	PayloadJSON    template.JS
}

// WriteHTML renders the report page for a built view. All user-supplied
// text flows through html/template's contextual escaping, so response and
// prompt content can never become live markup.
func WriteHTML(w io.Writer, view *View, opts Options) error {
	if opts.Title == "" {
		opts.Title = "LLM Benchmark Report"
	}

	data := pageData{
		Title:   opts.Title,
		View:    view,
		Summary: opts.Summary,
	}
	if !opts.GeneratedAt.IsZero() {
		data.GeneratedAt = opts.GeneratedAt.Format(time.RFC1123)
	}

	if opts.Summary != nil {
		var buf bytes.Buffer
		// The interpretation markdown is generated by this package, not
		// taken from the payload, so rendering it as HTML is safe.
		if err := goldmark.Convert([]byte(SummaryMarkdown(opts.Summary)), &buf); err != nil {
			return fmt.Errorf("rendering interpretation: %w", err)
		}
		data.Interpretation = template.HTML(buf.String())
	}

	if payload, err := view.payloadJSON(); err == nil && payload != nil {
		data.PayloadJSON = template.JS(payload)
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func strOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"scoreClass":   ScoreClass,
	"formatNumber": FormatNumber,
	"successRate":  SuccessRate,
	"errorText":    ErrorText,
	"str":          strOf,
}).Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --accent: #3b82f6;
      --light: #f1f5f9;
      --text: #0f172a;
      --muted: #64748b;
      --border: #e2e8f0;
      --success: #10b981;
      --danger: #dc2626;
      --warning: #f59e0b;
    }
    body {
      font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif;
      margin: 0;
      background: var(--light);
      color: var(--text);
    }
    header {
      background: #1e293b;
      color: #f8fafc;
      padding: 1rem 1.5rem;
    }
    header h1 { margin: 0; font-size: 1.25rem; }
    header .stamp { color: #94a3b8; font-size: 0.8rem; }
    main { max-width: 960px; margin: 1.5rem auto; padding: 0 1rem; }
    .banner {
      background: #fee2e2;
      border: 1px solid var(--danger);
      color: #7f1d1d;
      border-radius: 8px;
      padding: 0.75rem 1rem;
      margin-bottom: 1rem;
    }
    .overview {
      background: #fff;
      border: 1px solid var(--border);
      border-radius: 8px;
      padding: 1rem 1.25rem;
      margin-bottom: 1.5rem;
    }
    .overview table { border-collapse: collapse; }
    .overview td { padding: 0.15rem 1.25rem 0.15rem 0; color: var(--muted); }
    .overview td.value { color: var(--text); font-weight: 600; }
    .tabs { display: flex; gap: 0.5rem; margin-bottom: 0; }
    .tab {
      border: 1px solid var(--border);
      border-bottom: none;
      border-radius: 8px 8px 0 0;
      background: #e2e8f0;
      padding: 0.5rem 1.25rem;
      cursor: pointer;
      font-size: 0.95rem;
    }
    .tab.active { background: #fff; font-weight: 600; }
    .tab-content {
      display: none;
      background: #fff;
      border: 1px solid var(--border);
      border-radius: 0 8px 8px 8px;
      padding: 1rem;
      min-height: 4rem;
    }
    .tab-content.active { display: block; }
    .placeholder { color: var(--muted); font-style: italic; }
    .result-item { border: 1px solid var(--border); border-radius: 8px; margin-bottom: 0.75rem; }
    .item-header {
      display: flex;
      align-items: center;
      justify-content: space-between;
      width: 100%;
      border: none;
      background: var(--light);
      border-radius: 8px;
      padding: 0.6rem 1rem;
      cursor: pointer;
      font: inherit;
      text-align: left;
    }
    .result-item.open .item-header { border-radius: 8px 8px 0 0; }
    .item-id { font-weight: 600; }
    .badge {
      border-radius: 999px;
      padding: 0.1rem 0.6rem;
      font-size: 0.8rem;
      color: #fff;
      background: var(--muted);
    }
    .badge.high { background: var(--success); }
    .badge.medium { background: var(--warning); }
    .badge.low { background: var(--danger); }
    .badge.none { background: var(--muted); }
    .item-body { display: none; padding: 0.75rem 1rem; border-top: 1px solid var(--border); }
    .result-item.open .item-body { display: block; }
    .conv-summary { color: var(--muted); font-size: 0.9rem; margin-bottom: 0.75rem; }
    .conv-summary .errors { color: var(--danger); font-weight: 600; }
    .turn { border-left: 3px solid var(--border); padding: 0.25rem 0 0.25rem 0.9rem; margin-bottom: 0.75rem; }
    .turn-no { font-weight: 600; color: var(--muted); margin-bottom: 0.25rem; }
    .field { margin-bottom: 0.4rem; }
    .field .label { display: block; font-size: 0.75rem; text-transform: uppercase; color: var(--muted); }
    .field pre {
      white-space: pre-wrap;
      word-break: break-word;
      background: var(--light);
      border-radius: 6px;
      padding: 0.4rem 0.6rem;
      margin: 0.15rem 0 0;
    }
    .na { color: var(--muted); }
    .error-block {
      background: #fee2e2;
      border-radius: 6px;
      color: #7f1d1d;
      padding: 0.4rem 0.6rem;
      margin-top: 0.4rem;
      white-space: pre-wrap;
      word-break: break-word;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{ .Title }}</h1>
    {{ if .GeneratedAt }}<div class="stamp">Generated {{ .GeneratedAt }}</div>{{ end }}
  </header>
  <main>
    {{ if .View.ParseError }}
    <div class="banner">Failed to parse the results payload: {{ .View.ParseError }}</div>
    {{ end }}

    {{ if .Summary }}
    <section class="overview">
      <table>
        <tr><td>Items processed</td><td class="value">{{ .Summary.TotalItems }}</td></tr>
        <tr><td>Completed</td><td class="value">{{ .Summary.CompletedItems }}</td></tr>
        <tr><td>Scored</td><td class="value">{{ .Summary.ScoredItems }}</td></tr>
        <tr><td>Errors</td><td class="value">{{ .Summary.ErrorItems }}</td></tr>
        <tr><td>Average score</td><td class="value">{{ formatNumber .Summary.AverageScore 4 }}</td></tr>
        <tr><td>Average latency</td><td class="value">{{ if .Summary.AverageLatency }}{{ formatNumber .Summary.AverageLatency 4 }}s{{ else }}N/A{{ end }}</td></tr>
      </table>
      {{ .Interpretation }}
    </section>
    {{ end }}

    <div class="tabs">
      <button type="button" class="tab active" data-tab="success">{{ .View.SuccessLabel }}</button>
      <button type="button" class="tab" data-tab="error">{{ .View.ErrorLabel }}</button>
    </div>
    <div id="success-content" class="tab-content active">
      {{ if .View.Success }}
        {{ range .View.Success }}{{ template "item" . }}{{ end }}
      {{ else if .View.NoData }}
        <p class="placeholder">No data available.</p>
      {{ else if not .View.ParseError }}
        <p class="placeholder">No successful items.</p>
      {{ end }}
    </div>
    <div id="error-content" class="tab-content">
      {{ if .View.Errors }}
        {{ range .View.Errors }}{{ template "item" . }}{{ end }}
      {{ else if .View.NoData }}
        <p class="placeholder">No data available.</p>
      {{ else if not .View.ParseError }}
        <p class="placeholder">No error items.</p>
      {{ end }}
    </div>
  </main>
  {{ if .PayloadJSON }}
  <script id="results-data" type="application/json">{{ .PayloadJSON }}</script>
  {{ end }}
  <script>
    document.querySelectorAll('.tab').forEach(function (btn) {
      btn.addEventListener('click', function () {
        document.querySelectorAll('.tab').forEach(function (b) {
          b.classList.toggle('active', b === btn);
        });
        document.querySelectorAll('.tab-content').forEach(function (c) {
          c.classList.toggle('active', c.id === btn.dataset.tab + '-content');
        });
      });
    });
    document.querySelectorAll('.item-header').forEach(function (h) {
      h.addEventListener('click', function () {
        h.parentElement.classList.toggle('open');
      });
    });
  </script>
</body>
</html>

{{ define "item" }}
<div class="result-item">
  <button type="button" class="item-header">
    <span class="item-id">{{ .ID }}</span>
    {{ if eq .Kind "conversation" }}
      {{ with .Conversation.Summary }}
      <span class="badge {{ scoreClass .AverageScore }}">avg {{ formatNumber .AverageScore 2 }}</span>
      {{ end }}
    {{ else }}
      <span class="badge {{ scoreClass .Single.Score }}">{{ formatNumber .Single.Score 2 }}</span>
    {{ end }}
  </button>
  <div class="item-body">
    {{ if eq .Kind "conversation" }}
      {{ with .Conversation.Summary }}
      <div class="conv-summary">
        Turns: {{ .TotalTurns }}
        &middot; Avg latency/turn: {{ formatNumber .AverageLatencyPerTurn 2 }}s
        &middot; Success rate: {{ successRate . }}
        &middot; {{ if gt .ErrorTurns 0 }}<span class="errors">Error turns: {{ .ErrorTurns }}</span>{{ else }}Error turns: 0{{ end }}
      </div>
      {{ end }}
    {{ end }}
    {{ range .Turns }}{{ template "turn" . }}{{ end }}
  </div>
</div>
{{ end }}

{{ define "turn" }}
<div class="turn">
  {{ if .Turn }}<div class="turn-no">Turn {{ .Turn }}</div>{{ end }}
  <div class="field">
    <span class="label">User message</span>
    <pre>{{ .UserMessage }}</pre>
  </div>
  {{ if str .Expected }}
  <div class="field">
    <span class="label">Expected</span>
    <pre>{{ str .Expected }}</pre>
  </div>
  {{ end }}
  <div class="field">
    <span class="label">Response</span>
    {{ if .Actual }}<pre>{{ str .Actual }}</pre>{{ else }}<span class="na">N/A</span>{{ end }}
  </div>
  <div class="field">
    <span class="label">Score</span>
    <span class="badge {{ scoreClass .Score }}">{{ formatNumber .Score 2 }}</span>
  </div>
  {{ if str .ScoreReasoning }}
  <div class="field">
    <span class="label">Reasoning</span>
    <pre>{{ str .ScoreReasoning }}</pre>
  </div>
  {{ end }}
  <div class="field">
    <span class="label">Latency</span>
    {{ formatNumber .Latency 2 }}s
  </div>
  {{ with errorText . }}
  <div class="error-block">Error: {{ . }}</div>
  {{ end }}
</div>
{{ end }}
`
