package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"accountable/internal/core"
)

var exportNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

func sampleData() ([]core.Transaction, []core.Category) {
	txs := []core.Transaction{
		{
			ID:          "t1",
			Amount:      350,
			Description: `weekly "big" shop`,
			CategoryID:  "1",
			Date:        "2025-03-10",
			Type:        core.Expense,
			CreatedAt:   exportNow,
		},
		{
			ID:          "t2",
			Amount:      1000,
			Description: "salary",
			CategoryID:  "7",
			Date:        "2025-03-01",
			Type:        core.Income,
			CreatedAt:   exportNow,
		},
		{
			ID:          "t3",
			Amount:      12,
			Description: "mystery",
			CategoryID:  "gone",
			Date:        "2025-03-02",
			Type:        core.Expense,
			CreatedAt:   exportNow,
		},
	}
	return txs, core.SeedCategories()
}

func TestWriteJSON(t *testing.T) {
	txs, cats := sampleData()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, txs, cats, exportNow); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var archive Archive
	if err := json.Unmarshal(buf.Bytes(), &archive); err != nil {
		t.Fatalf("parse archive: %v", err)
	}
	if !archive.ExportedAt.Equal(exportNow) {
		t.Fatalf("exportedAt = %v, want %v", archive.ExportedAt, exportNow)
	}
	if len(archive.Expenses) != 3 || len(archive.Categories) != 7 {
		t.Fatalf("archive contents wrong: %d expenses, %d categories",
			len(archive.Expenses), len(archive.Categories))
	}
}

func TestWriteJSONEmptyCollections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, nil, exportNow); err != nil {
		t.Fatalf("write json: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "null") {
		t.Fatalf("empty collections must encode as arrays, got: %s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	txs, cats := sampleData()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs, cats); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Description,Type,Category,Amount" {
		t.Fatalf("header = %q", lines[0])
	}
	// Internal quotes are doubled per standard CSV escaping
	if !strings.Contains(lines[1], `"weekly ""big"" shop"`) {
		t.Fatalf("quote escaping wrong: %q", lines[1])
	}
	if !strings.Contains(lines[1], "Food") || !strings.Contains(lines[1], "350.00") {
		t.Fatalf("row contents wrong: %q", lines[1])
	}
	// Dangling category reference resolves to Unknown
	if !strings.Contains(lines[3], "Unknown") {
		t.Fatalf("missing category must render Unknown: %q", lines[3])
	}
}

func TestWriteReport(t *testing.T) {
	txs, cats := sampleData()
	var buf bytes.Buffer
	budgets := core.Budgets{Monthly: 1200}
	if err := WriteReport(&buf, txs, cats, budgets, exportNow); err != nil {
		t.Fatalf("write report: %v", err)
	}

	out := buf.String()
	// The three summary figures
	for _, want := range []string{"362.00", "1000.00", "638.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing summary figure %s:\n%s", want, out)
		}
	}
	// Signed per-row amounts
	if !strings.Contains(out, "-350.00") {
		t.Fatalf("expense rows must be negative:\n%s", out)
	}
	if !strings.Contains(out, "+1000.00") {
		t.Fatalf("income rows must be positive:\n%s", out)
	}
	// HTML escaping of user text
	if !strings.Contains(out, "&#34;big&#34;") && !strings.Contains(out, "&quot;big&quot;") {
		t.Fatalf("description must be HTML-escaped:\n%s", out)
	}
}
