package analytics

import (
	"fmt"
	"time"

	"accountable/internal/core"
)

// Fixed advisory thresholds, in base-currency units. Exported as named
// constants so the rule evaluation is testable without configuration.
const (
	HighSpendingThreshold   = 300 // per-category monthly total
	DailyPaceThreshold      = 50  // average spend per elapsed day
	SavingsAverageThreshold = 20  // per-transaction category average
	LargeTransactionCutoff  = 200 // single transaction amount
)

// Severity orders insight notices for display.
type Severity string

const (
	High   Severity = "high"
	Medium Severity = "medium"
	Low    Severity = "low"
)

// Insight is one advisory notice about the current month's spending.
type Insight struct {
	Kind       string   `json:"kind"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Severity   Severity `json:"severity"`
}

// ComputeInsights evaluates the deterministic rule list over the current
// month's expense transactions. Category rules emit one notice per matching
// category; the savings and large-transaction rules each emit at most one
// aggregate notice.
func ComputeInsights(txs []core.Transaction, cats []core.Category, now time.Time) []Insight {
	var monthly []core.Transaction
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if d.Year() == now.Year() && d.Month() == now.Month() {
			monthly = append(monthly, tx)
		}
	}
	if len(monthly) == 0 {
		return nil
	}

	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	type catStat struct {
		total float64
		count int
	}
	perCat := make(map[string]*catStat)
	order := make([]string, 0, len(cats)) // stable iteration for output order
	var totalSpent float64
	largeCount := 0

	for _, tx := range monthly {
		st, ok := perCat[tx.CategoryID]
		if !ok {
			st = &catStat{}
			perCat[tx.CategoryID] = st
			order = append(order, tx.CategoryID)
		}
		st.total += tx.Amount
		st.count++
		totalSpent += tx.Amount
		if tx.Amount > LargeTransactionCutoff {
			largeCount++
		}
	}

	var insights []Insight

	for _, id := range order {
		st := perCat[id]
		if st.total <= HighSpendingThreshold {
			continue
		}
		name := names[id]
		if name == "" {
			name = "Uncategorized"
		}
		insights = append(insights, Insight{
			Kind:       "high_spending",
			Title:      "High Spending Alert",
			Message:    fmt.Sprintf("You've spent %.2f on %s this month", st.total, name),
			Suggestion: "Consider setting a budget limit for this category",
			Severity:   High,
		})
	}

	dailyAverage := totalSpent / float64(now.Day())
	if dailyAverage > DailyPaceThreshold {
		insights = append(insights, Insight{
			Kind:       "spending_pace",
			Title:      "Spending Pace",
			Message:    fmt.Sprintf("You're averaging %.2f per day", dailyAverage),
			Suggestion: "At this rate, you might exceed your monthly budget",
			Severity:   Medium,
		})
	}

	lowAvg := 0
	for _, id := range order {
		st := perCat[id]
		avg := st.total / float64(st.count)
		if avg > 0 && avg < SavingsAverageThreshold {
			lowAvg++
		}
	}
	if lowAvg > 0 {
		insights = append(insights, Insight{
			Kind:       "savings_opportunity",
			Title:      "Savings Opportunity",
			Message:    fmt.Sprintf("You're spending wisely in %d categories", lowAvg),
			Suggestion: "Maintain this disciplined spending pattern",
			Severity:   Low,
		})
	}

	if largeCount > 0 {
		insights = append(insights, Insight{
			Kind:       "large_transactions",
			Title:      "Large Transactions",
			Message:    fmt.Sprintf("You have %d transactions over %d this month", largeCount, LargeTransactionCutoff),
			Suggestion: "Review these expenses to ensure they align with your goals",
			Severity:   Medium,
		})
	}

	return insights
}
