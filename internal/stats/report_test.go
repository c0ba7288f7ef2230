package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/moderation"
)

func TestRenderHTML(t *testing.T) {
	s := moderation.Stats{
		BotUsers: 42,
		Listed:   7,
		Admins:   2,
		ByStatus: map[registry.Status]int{
			registry.StatusScam:   5,
			registry.StatusVerify: 2,
		},
	}
	html, err := RenderHTML(s, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(html)

	for _, want := range []string{"42", "7", "2", "2025-06-01 12:00:00"} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q", want)
		}
	}
	// verify rows sorted by priority: verify before scam
	if strings.Index(doc, "Верифицирован") > strings.Index(doc, "Скам") {
		t.Error("status rows not in priority order")
	}
}

func TestExportUsersXLSX(t *testing.T) {
	records := []registry.Record{
		{Username: "root_admin", Status: registry.StatusAdmin},
		{Username: "alice", Status: registry.StatusVerify},
	}
	data, err := ExportUsersXLSX(records)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != "root_admin" || rows[1][1] != "admin" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "alice" || rows[2][1] != "verify" {
		t.Errorf("row 2 = %v", rows[2])
	}
}
