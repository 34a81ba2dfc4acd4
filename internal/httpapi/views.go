package httpapi

import (
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

var funcs = template.FuncMap{
	"ago": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return humanize.Time(*t)
	},
}

var listPage = template.Must(template.New("list").Funcs(funcs).Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{if .Offline}}({{.Offline}}) {{end}}PingMe</title></head>
<body>
<h1>Websites</h1>
<p>{{.Offline}} offline &middot; checked every {{.Interval}}</p>
<table>
<thead><tr><th>Status</th><th>Name</th><th>URL</th><th>Code</th><th>Checked</th><th>Response (ms)</th></tr></thead>
<tbody>
{{range .Rows}}<tr class="{{.Status}}">
<td>{{.Status}}</td><td>{{.Name}}</td><td><a href="{{.URL}}">{{.URL}}</a></td><td>{{.Code}}</td>
<td>{{ago .ObservedAt}}</td><td {{if .Slow}}class="slow"{{end}}>{{.ResponseTime}}</td>
</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type listView struct {
	Rows     []statusRow
	Offline  int
	Interval time.Duration
}

func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	rows, err := s.rows(r)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	view := listView{Rows: rows, Interval: s.Interval}
	for _, row := range rows {
		if row.Status != "ok" && row.Status != statusUnknown {
			view.Offline++
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listPage.Execute(w, view); err != nil {
		s.Logger.Warn("render_list_error", zap.Error(err))
	}
}
