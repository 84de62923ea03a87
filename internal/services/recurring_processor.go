// Package services holds the orchestration that sits between the store and
// the background workers.
package services

import (
	"context"
	"time"

	"accountable/internal/core"
	applog "accountable/internal/log"
	"accountable/internal/store"
)

// RecurringProcessor turns due recurring templates into real transactions.
type RecurringProcessor struct {
	store  *store.Store
	logger *applog.Logger
}

func NewRecurringProcessor(s *store.Store, logger *applog.Logger) *RecurringProcessor {
	return &RecurringProcessor{
		store:  s,
		logger: logger.WithComponent(applog.ComponentRecurring),
	}
}

// ProcessDue materializes every template whose next date is on or before
// now, then advances the template's next date by its frequency. A template
// that failed to materialize keeps its date and is retried next run.
// Returns the number of transactions created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	today := now.Format(core.DateLayout)
	processed := 0

	for _, r := range p.store.Recurring() {
		if r.NextDate > today {
			continue
		}

		draft := core.Transaction{
			Amount:      r.Amount,
			Description: r.Description,
			CategoryID:  r.CategoryID,
			Date:        today,
			Type:        r.Type,
		}
		if _, err := p.store.AddTransaction(ctx, draft); err != nil {
			p.logger.ErrorContext(ctx, "failed to create transaction from template",
				"template_id", r.ID,
				"description", r.Description,
				applog.FieldError, err)
			continue
		}

		next, err := NextOccurrence(r.NextDate, r.Frequency)
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to advance template date",
				"template_id", r.ID,
				applog.FieldError, err)
			continue
		}
		r.NextDate = next
		if err := p.store.UpdateRecurring(ctx, r); err != nil {
			p.logger.ErrorContext(ctx, "failed to update template",
				"template_id", r.ID,
				applog.FieldError, err)
			// The transaction was created; worst case the template fires
			// again next run and the duplicate is deleted by hand.
		}

		processed++
		p.logger.InfoContext(ctx, "created transaction from template",
			"template_id", r.ID,
			"description", r.Description,
			"next_date", r.NextDate)
	}

	return processed, nil
}

// NextOccurrence advances a YYYY-MM-DD date by one frequency step.
func NextOccurrence(date string, freq core.Frequency) (string, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return "", err
	}
	switch freq {
	case core.Daily:
		d = d.AddDate(0, 0, 1)
	case core.Weekly:
		d = d.AddDate(0, 0, 7)
	case core.Monthly:
		d = d.AddDate(0, 1, 0)
	case core.Yearly:
		d = d.AddDate(1, 0, 0)
	default:
		return "", core.ErrInvalidFrequency
	}
	return d.Format(core.DateLayout), nil
}
