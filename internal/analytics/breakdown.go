package analytics

import (
	"sort"
	"time"

	"accountable/internal/core"
)

// Window selects the time span a breakdown covers.
type Window string

const (
	Week  Window = "week"
	Month Window = "month"
	Year  Window = "year"
	All   Window = "all"
)

func (w Window) Valid() bool {
	switch w {
	case Week, Month, Year, All:
		return true
	}
	return false
}

// start returns the inclusive lower bound of the window ending at now.
func (w Window) start(now time.Time) time.Time {
	switch w {
	case Week:
		return now.AddDate(0, 0, -7)
	case Month:
		return now.AddDate(0, -1, 0)
	case Year:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// CategoryTotal is one category's share of the window's expenses.
type CategoryTotal struct {
	CategoryID   string  `json:"categoryId"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	AveragePerTx float64 `json:"averagePerTransaction"`
}

// CategoryBreakdown groups expense transactions inside the window by
// category and computes each group's share of the window total. Groups with
// a zero total are excluded. Ordering is by total descending; equal totals
// fall back to the category name so the result is deterministic.
func CategoryBreakdown(txs []core.Transaction, cats []core.Category, w Window, now time.Time) []CategoryTotal {
	names := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		names[c.ID] = c
	}

	start := w.start(now)
	sums := make(map[string]*CategoryTotal)
	var windowTotal float64

	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if d.Before(start) {
			continue
		}

		entry, ok := sums[tx.CategoryID]
		if !ok {
			cat, known := names[tx.CategoryID]
			if !known {
				cat = core.Category{ID: tx.CategoryID, Name: "Uncategorized", Color: "#BDC3C7"}
			}
			entry = &CategoryTotal{CategoryID: cat.ID, Name: cat.Name, Color: cat.Color}
			sums[tx.CategoryID] = entry
		}
		entry.Total += tx.Amount
		entry.Count++
		windowTotal += tx.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))
	for _, entry := range sums {
		if entry.Total == 0 {
			continue
		}
		if windowTotal > 0 {
			entry.Percentage = entry.Total / windowTotal * 100
		}
		entry.AveragePerTx = entry.Total / float64(entry.Count)
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthPoint is one month's income/expense rollup.
type MonthPoint struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// MonthlySeries rolls transactions inside the window up per calendar month,
// most recent last, capped to the trailing six months with data.
func MonthlySeries(txs []core.Transaction, w Window, now time.Time) []MonthPoint {
	start := w.start(now)
	byMonth := make(map[string]*MonthPoint)

	for _, tx := range txs {
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if d.Before(start) {
			continue
		}
		key := d.Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			point = &MonthPoint{Month: key}
			byMonth[key] = point
		}
		if tx.Type == core.Income {
			point.Income += tx.Amount
		} else {
			point.Expenses += tx.Amount
		}
	}

	out := make([]MonthPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	if len(out) > 6 {
		out = out[len(out)-6:]
	}
	return out
}

// WindowStats are the summary cards shown alongside a breakdown.
type WindowStats struct {
	TotalIncome    float64 `json:"totalIncome"`
	TotalExpenses  float64 `json:"totalExpenses"`
	AverageExpense float64 `json:"averageExpense"`
	LargestExpense float64 `json:"largestExpense"`
}

// ComputeWindowStats summarizes the window: totals per type, the average
// expense across categories with spend, and the single largest expense.
func ComputeWindowStats(txs []core.Transaction, cats []core.Category, w Window, now time.Time) WindowStats {
	start := w.start(now)
	var stats WindowStats
	for _, tx := range txs {
		d, err := core.ParseDate(tx.Date)
		if err != nil || d.Before(start) {
			continue
		}
		if tx.Type == core.Income {
			stats.TotalIncome += tx.Amount
			continue
		}
		if tx.Type == core.Expense {
			stats.TotalExpenses += tx.Amount
			if tx.Amount > stats.LargestExpense {
				stats.LargestExpense = tx.Amount
			}
		}
	}

	breakdown := CategoryBreakdown(txs, cats, w, now)
	if n := len(breakdown); n > 0 {
		stats.AverageExpense = stats.TotalExpenses / float64(n)
	}
	return stats
}
