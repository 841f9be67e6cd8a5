package grid

import (
	"fmt"
	"html/template"
	"io"
)

// RenderHTML writes the grid view as the dashboard table markup. Presentation
// stays out of the view model: this is the only place markup is produced.
func RenderHTML(w io.Writer, view View) error {
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render grid: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("grid").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>シフト表 {{.Title}}</title>
<link rel="stylesheet" href="/static/shift.css">
</head>
<body>
<h1>シフト表 {{.Title}}{{if eq .Source "sample"}} <span class="sample-banner">サンプルデータ表示中</span>{{end}}</h1>
<table class="shift-table">
<thead>
<tr><th>スタッフ名</th>{{range .Header}}<th>{{.}}</th>{{end}}<th>月合計</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.StaffName}}</td>
{{range .Cells}}<td class="{{.HomeCls}}" data-staff-id="{{.StaffID}}" data-date="{{.Day}}">{{if .Label}}<div class="shift-code {{.Class}}">{{.Label}}</div>{{end}}</td>{{end}}
<td>{{.WorkedDays}}日</td>
</tr>
{{end}}</tbody>
</table>

<section class="monthly-summary">
<h2>月間集計</h2>
<ul>
{{range .CodeTotals}}<li class="summary-list-item"><span class="label">{{.Name}} ({{.Code}})</span><span class="value">{{.Count}}</span></li>
{{end}}</ul>
</section>

<section class="home-summary">
<h2>ホーム別月間合計</h2>
<ul>
{{range .HomeTotals}}<li class="summary-list-item"><span class="label">{{.Home}}ホーム</span><span class="value">{{.Days}}日</span></li>
{{end}}</ul>
</section>

{{with .Daily}}
<section class="daily-summary">
<h2>{{.Home}}ホーム 日次集計</h2>
<table>
<tr><th>{{.Home}}ホーム</th>{{range .Columns}}<td><ul class="summary-list">{{range .Counts}}<li>{{.Code}}:{{.Count}}</li>{{end}}</ul></td>{{end}}<td>{{.MonthTotal}}</td></tr>
</table>
</section>
{{end}}
</body>
</html>
`))
