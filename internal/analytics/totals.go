// Package analytics computes read-only derived figures from the transaction
// list. Everything here is a pure function of (transactions, budgets, now);
// nothing caches and nothing mutates its inputs.
package analytics

import (
	"time"

	"accountable/internal/core"
)

// Totals are the headline figures for the calendar month containing now.
type Totals struct {
	TotalExpenses   float64 `json:"totalExpenses"`
	TotalIncome     float64 `json:"totalIncome"`
	Balance         float64 `json:"balance"`
	MonthlyBudget   float64 `json:"monthlyBudget"`
	BudgetRemaining float64 `json:"budgetRemaining"`
}

// ComputeTotals filters transactions to the calendar month and year of now
// and partitions them by type. The expense bucket is deliberately inclusive:
// anything that is not income counts as an expense, so an unrecognized type
// never silently disappears from the spend figures. BudgetRemaining goes
// negative when over budget; callers treat that as a warning, not an error.
func ComputeTotals(txs []core.Transaction, budgets core.Budgets, now time.Time) Totals {
	var expenses, income float64
	for _, tx := range txs {
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if d.Year() != now.Year() || d.Month() != now.Month() {
			continue
		}
		if tx.Type == core.Income {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
	}

	return Totals{
		TotalExpenses:   expenses,
		TotalIncome:     income,
		Balance:         income - expenses,
		MonthlyBudget:   budgets.Monthly,
		BudgetRemaining: budgets.Monthly - expenses,
	}
}
