package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"accountable/internal/analytics"
	"accountable/internal/core"
)

// reportTemplate is a deliberately plain printable document. The contract
// is the three summary figures and the per-row fields, not the styling.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Accountable Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #1a1a1a; }
h1 { border-bottom: 2px solid #00d1ff; padding-bottom: 10px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; }
.summary td { font-weight: bold; }
</style>
</head>
<body>
<h1>Accountable Report</h1>
<p>Generated {{.GeneratedAt}}</p>
<table class="summary">
<tr><td>Total Expenses</td><td>{{.TotalExpenses}}</td></tr>
<tr><td>Total Income</td><td>{{.TotalIncome}}</td></tr>
<tr><td>Net Balance</td><td>{{.Balance}}</td></tr>
</table>
<table>
<tr><th>Date</th><th>Description</th><th>Type</th><th>Category</th><th>Amount</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Description}}</td><td>{{.Type}}</td><td>{{.Category}}</td><td>{{.Amount}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type reportRow struct {
	Date        string
	Description string
	Type        string
	Category    string
	Amount      string
}

type reportData struct {
	GeneratedAt   string
	TotalExpenses string
	TotalIncome   string
	Balance       string
	Rows          []reportRow
}

// WriteReport renders the printable report: all transactions with signed
// amounts (income positive, everything else negative) plus the month's
// summary figures.
func WriteReport(w io.Writer, txs []core.Transaction, cats []core.Category, budgets core.Budgets, now time.Time) error {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	totals := analytics.ComputeTotals(txs, budgets, now)

	data := reportData{
		GeneratedAt:   now.Format("2006-01-02 15:04"),
		TotalExpenses: formatAmount(totals.TotalExpenses),
		TotalIncome:   formatAmount(totals.TotalIncome),
		Balance:       formatAmount(totals.Balance),
	}
	for _, tx := range txs {
		name, ok := names[tx.CategoryID]
		if !ok {
			name = "Unknown"
		}
		signed := tx.Amount
		if tx.Type != core.Income {
			signed = -signed
		}
		data.Rows = append(data.Rows, reportRow{
			Date:        tx.Date,
			Description: tx.Description,
			Type:        string(tx.Type),
			Category:    name,
			Amount:      fmt.Sprintf("%+.2f", signed),
		})
	}

	return reportTemplate.Execute(w, data)
}
