package store

import (
	"encoding/json"

	"accountable/internal/core"
)

// State is one immutable snapshot of everything the store owns. Reductions
// never mutate a State in place; they build the next one from it.
//
// The persisted layout keeps the historical field names ("expenses" holds
// both expense and income transactions). Unknown top-level fields found in a
// loaded snapshot are retained verbatim and written back on the next persist.
type State struct {
	Transactions []core.Transaction
	Categories   []core.Category
	Budgets      core.Budgets
	Goals        []core.Goal
	Recurring    []core.RecurringTransaction
	Theme        string

	extra map[string]json.RawMessage
}

const (
	defaultMonthlyBudget = 1200
	defaultYearlyBudget  = 14400
	defaultTheme         = "dark"
)

// DefaultState returns the initial state used before any snapshot is loaded.
func DefaultState() State {
	return State{
		Categories: core.SeedCategories(),
		Budgets:    core.Budgets{Monthly: defaultMonthlyBudget, Yearly: defaultYearlyBudget},
		Theme:      defaultTheme,
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(s.extra)+6)
	for k, v := range s.extra {
		doc[k] = v
	}

	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		doc[key] = raw
		return nil
	}

	txs := s.Transactions
	if txs == nil {
		txs = []core.Transaction{}
	}
	if err := put("expenses", txs); err != nil {
		return nil, err
	}
	cats := s.Categories
	if cats == nil {
		cats = []core.Category{}
	}
	if err := put("categories", cats); err != nil {
		return nil, err
	}
	if err := put("budgets", s.Budgets); err != nil {
		return nil, err
	}
	if len(s.Goals) > 0 {
		if err := put("goals", s.Goals); err != nil {
			return nil, err
		}
	}
	if len(s.Recurring) > 0 {
		if err := put("recurring", s.Recurring); err != nil {
			return nil, err
		}
	}
	if s.Theme != "" {
		if err := put("theme", s.Theme); err != nil {
			return nil, err
		}
	}

	return json.Marshal(doc)
}

// UnmarshalJSON shallow-merges the snapshot over the receiver: known keys
// present in the document fully replace the corresponding field, keys absent
// from the document leave the current (default) value in place, and anything
// unrecognized is kept for lossless round-tripping.
func (s *State) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	take := func(key string, dst any) error {
		raw, ok := doc[key]
		if !ok {
			return nil
		}
		delete(doc, key)
		return json.Unmarshal(raw, dst)
	}

	if err := take("expenses", &s.Transactions); err != nil {
		return err
	}
	if err := take("categories", &s.Categories); err != nil {
		return err
	}
	if err := take("budgets", &s.Budgets); err != nil {
		return err
	}
	if err := take("goals", &s.Goals); err != nil {
		return err
	}
	if err := take("recurring", &s.Recurring); err != nil {
		return err
	}
	if err := take("theme", &s.Theme); err != nil {
		return err
	}

	if len(doc) > 0 {
		s.extra = doc
	}
	return nil
}

// clone returns a copy whose slices are safe to hand out to callers.
func (s State) clone() State {
	out := s
	out.Transactions = append([]core.Transaction(nil), s.Transactions...)
	out.Categories = append([]core.Category(nil), s.Categories...)
	out.Goals = append([]core.Goal(nil), s.Goals...)
	out.Recurring = append([]core.RecurringTransaction(nil), s.Recurring...)
	return out
}
