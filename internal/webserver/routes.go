package webserver

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/lomen-org/llm-benchmarks/internal/webapi"
)

// registerRoutes sets up the API and the index page on the given mux.
func registerRoutes(mux *http.ServeMux, store *webapi.FileStore) {
	webapi.RegisterRoutes(mux, store)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handleIndex(w, r, store)
	})
}

// handleIndex renders the run index: every stored run, newest first, linking
// to its report page. The store is reloaded on each request so new runs show
// up without restarting the server.
func handleIndex(w http.ResponseWriter, _ *http.Request, store *webapi.FileStore) {
	if err := store.Reload(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	runs, err := store.ListRuns("timestamp", "desc")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, runs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"score": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.4f", *v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Benchmark Runs</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2328; }
  h1 { font-size: 1.4rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #d8dee4; }
  th { background: #f6f8fa; }
  .passed { color: #1a7f37; }
  .failed { color: #cf222e; }
  .empty { color: #656d76; padding: 2rem 0; }
</style>
</head>
<body>
<h1>Benchmark Runs</h1>
{{ if . }}
<table>
  <tr><th>Run</th><th>Model</th><th>Outcome</th><th>Items</th><th>Errors</th><th>Avg score</th><th>Timestamp</th></tr>
  {{ range . }}
  <tr>
    <td><a href="/runs/{{ .ID }}/report">{{ .ID }}</a></td>
    <td>{{ .Model }}</td>
    <td class="{{ .Outcome }}">{{ .Outcome }}</td>
    <td>{{ .TotalItems }}</td>
    <td>{{ .ErrorItems }}</td>
    <td>{{ score .AverageScore }}</td>
    <td>{{ .Timestamp.Format "2006-01-02 15:04:05" }}</td>
  </tr>
  {{ end }}
</table>
{{ else }}
<p class="empty">No runs found. Execute a benchmark first.</p>
{{ end }}
</body>
</html>
`
