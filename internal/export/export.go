// Package export renders the tracked data in the three supported interchange
// formats: a JSON archive, a flat CSV, and a printable HTML report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"accountable/internal/core"
)

// Archive is the JSON export envelope.
type Archive struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Expenses   []core.Transaction `json:"expenses"`
	Categories []core.Category    `json:"categories"`
}

// WriteJSON writes the full archive as indented JSON.
func WriteJSON(w io.Writer, txs []core.Transaction, cats []core.Category, now time.Time) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	if cats == nil {
		cats = []core.Category{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Archive{
		ExportedAt: now,
		Expenses:   txs,
		Categories: cats,
	})
}

var csvHeader = []string{"Date", "Description", "Type", "Category", "Amount"}

// WriteCSV writes one row per transaction with the category resolved by
// name, "Unknown" when the reference no longer resolves. encoding/csv
// handles quoting, including doubled internal quotes.
func WriteCSV(w io.Writer, txs []core.Transaction, cats []core.Category) error {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		name, ok := names[tx.CategoryID]
		if !ok {
			name = "Unknown"
		}
		row := []string{
			tx.Date,
			tx.Description,
			string(tx.Type),
			name,
			formatAmount(tx.Amount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
