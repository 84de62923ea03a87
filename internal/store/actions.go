package store

import "accountable/internal/core"

// Action is the closed set of mutation intents the store accepts. Every
// state transition is expressed as one of these and applied by Reduce; the
// sealed interface keeps the variant list exhaustive at compile time.
type Action interface {
	isAction()
}

type (
	AddTransaction struct {
		Transaction core.Transaction
	}

	UpdateTransaction struct {
		Transaction core.Transaction
	}

	DeleteTransaction struct {
		ID string
	}

	AddCategory struct {
		Category core.Category
	}

	// DeleteCategory removes the category and reassigns every transaction
	// referencing it to the fallback category, in the same reduction.
	DeleteCategory struct {
		ID string
	}

	// UpdateBudget shallow-merges the non-nil fields into the budgets.
	UpdateBudget struct {
		Monthly *float64
		Yearly  *float64
	}

	SetTheme struct {
		Theme string
	}

	AddGoal struct {
		Goal core.Goal
	}

	UpdateGoal struct {
		Goal core.Goal
	}

	DeleteGoal struct {
		ID string
	}

	AddRecurring struct {
		Recurring core.RecurringTransaction
	}

	UpdateRecurring struct {
		Recurring core.RecurringTransaction
	}

	DeleteRecurring struct {
		ID string
	}
)

func (AddTransaction) isAction()    {}
func (UpdateTransaction) isAction() {}
func (DeleteTransaction) isAction() {}
func (AddCategory) isAction()       {}
func (DeleteCategory) isAction()    {}
func (UpdateBudget) isAction()      {}
func (SetTheme) isAction()          {}
func (AddGoal) isAction()           {}
func (UpdateGoal) isAction()        {}
func (DeleteGoal) isAction()        {}
func (AddRecurring) isAction()      {}
func (UpdateRecurring) isAction()   {}
func (DeleteRecurring) isAction()   {}

// Reduce maps (previous state, action) to the next state. It is pure: the
// previous state is never modified, so a reduction either fully applies or
// not at all. Lookup misses (update/delete with an unknown id) reduce to the
// previous state unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddTransaction:
		next := s
		next.Transactions = make([]core.Transaction, 0, len(s.Transactions)+1)
		next.Transactions = append(next.Transactions, a.Transaction)
		next.Transactions = append(next.Transactions, s.Transactions...)
		return next

	case UpdateTransaction:
		next := s
		next.Transactions = append([]core.Transaction(nil), s.Transactions...)
		for i, tx := range next.Transactions {
			if tx.ID == a.Transaction.ID {
				next.Transactions[i] = a.Transaction
				break
			}
		}
		return next

	case DeleteTransaction:
		next := s
		next.Transactions = make([]core.Transaction, 0, len(s.Transactions))
		for _, tx := range s.Transactions {
			if tx.ID != a.ID {
				next.Transactions = append(next.Transactions, tx)
			}
		}
		return next

	case AddCategory:
		next := s
		next.Categories = append(append([]core.Category(nil), s.Categories...), a.Category)
		return next

	case DeleteCategory:
		next := s
		next.Categories = make([]core.Category, 0, len(s.Categories))
		for _, c := range s.Categories {
			if c.ID != a.ID {
				next.Categories = append(next.Categories, c)
			}
		}
		next.Transactions = append([]core.Transaction(nil), s.Transactions...)
		for i, tx := range next.Transactions {
			if tx.CategoryID == a.ID {
				next.Transactions[i].CategoryID = core.FallbackCategoryID
			}
		}
		return next

	case UpdateBudget:
		next := s
		if a.Monthly != nil {
			next.Budgets.Monthly = *a.Monthly
		}
		if a.Yearly != nil {
			next.Budgets.Yearly = *a.Yearly
		}
		return next

	case SetTheme:
		next := s
		next.Theme = a.Theme
		return next

	case AddGoal:
		next := s
		next.Goals = append(append([]core.Goal(nil), s.Goals...), a.Goal)
		return next

	case UpdateGoal:
		next := s
		next.Goals = append([]core.Goal(nil), s.Goals...)
		for i, g := range next.Goals {
			if g.ID == a.Goal.ID {
				next.Goals[i] = a.Goal
				break
			}
		}
		return next

	case DeleteGoal:
		next := s
		next.Goals = make([]core.Goal, 0, len(s.Goals))
		for _, g := range s.Goals {
			if g.ID != a.ID {
				next.Goals = append(next.Goals, g)
			}
		}
		return next

	case AddRecurring:
		next := s
		next.Recurring = append(append([]core.RecurringTransaction(nil), s.Recurring...), a.Recurring)
		return next

	case UpdateRecurring:
		next := s
		next.Recurring = append([]core.RecurringTransaction(nil), s.Recurring...)
		for i, r := range next.Recurring {
			if r.ID == a.Recurring.ID {
				next.Recurring[i] = a.Recurring
				break
			}
		}
		return next

	case DeleteRecurring:
		next := s
		next.Recurring = make([]core.RecurringTransaction, 0, len(s.Recurring))
		for _, r := range s.Recurring {
			if r.ID != a.ID {
				next.Recurring = append(next.Recurring, r)
			}
		}
		return next
	}

	return s
}
