// Package stats renders the admin statistics report and the user-list
// spreadsheet export.
package stats

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/moderation"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Статистика бота</title>
<style>
body {
    background-color: #0a0a0a;
    color: #00ff00;
    font-family: 'Courier New', monospace;
    padding: 20px;
}
.container {
    background-color: rgba(0, 0, 0, 0.85);
    border: 1px solid #00ff00;
    border-radius: 10px;
    padding: 30px;
    margin: 20px auto;
    max-width: 600px;
    box-shadow: 0 0 20px rgba(0, 255, 0, 0.3);
}
h1 {
    text-align: center;
    text-shadow: 0 0 10px #00ff00;
    border-bottom: 2px solid #00ff00;
    padding-bottom: 10px;
}
.stat-item {
    margin: 20px 0;
    padding: 15px;
    background-color: rgba(0, 30, 0, 0.4);
    border-left: 4px solid #00ff00;
    border-radius: 5px;
}
.stat-label { font-size: 18px; color: #00cc00; }
.stat-value { font-size: 32px; font-weight: bold; color: #ffffff; }
table { width: 100%; margin-top: 20px; border-collapse: collapse; }
th, td { padding: 12px; text-align: left; border-bottom: 1px solid #00ff00; }
th { background-color: rgba(0, 50, 0, 0.5); }
.footer { text-align: center; margin-top: 30px; font-size: 14px; color: #008800; }
</style>
</head>
<body>
<div class="container">
<h1>📊 СТАТИСТИКА БОТА</h1>
<div class="stat-item"><div class="stat-label">👤 Всего пользователей бота</div><div class="stat-value">{{.BotUsers}}</div></div>
<div class="stat-item"><div class="stat-label">📝 Пользователей в базе</div><div class="stat-value">{{.Listed}}</div></div>
<div class="stat-item"><div class="stat-label">👑 Администраторов</div><div class="stat-value">{{.Admins}}</div></div>
<table>
<thead><tr><th>Статус</th><th>Количество</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Emoji}} {{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</tbody>
</table>
<div class="footer">{{.GeneratedAt}}</div>
</div>
</body>
</html>
`))

type reportRow struct {
	Emoji string
	Name  string
	Count int
}

// RenderHTML produces the statistics report as a standalone HTML
// document, status rows ordered by display priority.
func RenderHTML(s moderation.Stats, now time.Time) ([]byte, error) {
	rows := make([]reportRow, 0, len(s.ByStatus))
	keys := make([]registry.Status, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := registry.Priority(keys[i]), registry.Priority(keys[j])
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		rows = append(rows, reportRow{
			Emoji: registry.Emoji(k),
			Name:  registry.DisplayName(k),
			Count: s.ByStatus[k],
		})
	}

	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, struct {
		BotUsers    int
		Listed      int
		Admins      int
		Rows        []reportRow
		GeneratedAt string
	}{
		BotUsers:    s.BotUsers,
		Listed:      s.Listed,
		Admins:      s.Admins,
		Rows:        rows,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportUsersXLSX builds a spreadsheet of the merged user listing for
// offline curation.
func ExportUsersXLSX(records []registry.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []any{"username", "status", "status_name"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export users: %w", err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export users: %w", err)
		}
		row := []any{rec.Username, string(rec.Status), registry.DisplayName(rec.Status)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export users: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export users: %w", err)
	}
	return buf.Bytes(), nil
}
