package currency

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	applog "accountable/internal/log"
	"accountable/internal/storage"
)

// RefreshInterval is how often the rate table is refreshed while the
// provider is running.
const RefreshInterval = 5 * time.Minute

// Provider owns the rate table and the base-currency selection. It refreshes
// the table on start, on every base-currency change and on a fixed interval;
// a failed refresh keeps the previous table. Overlapping refreshes are
// collapsed by an in-flight guard; when two do race the fetch, the last
// write wins, which is acceptable for a rate table.
type Provider struct {
	mu         sync.RWMutex
	base       string
	rates      map[string]float64
	refreshing bool

	source Source
	blob   storage.Blob
	logger *applog.Logger
	kick   chan struct{}
}

func NewProvider(source Source, blob storage.Blob, logger *applog.Logger) *Provider {
	return &Provider{
		base:   PivotCurrency,
		rates:  DefaultRates(),
		source: source,
		blob:   blob,
		logger: logger.WithComponent(applog.ComponentCurrency),
		kick:   make(chan struct{}, 1),
	}
}

// Load restores the persisted base-currency selection, if any.
func (p *Provider) Load(ctx context.Context) {
	raw, err := p.blob.Get(ctx, storage.CurrencyKey)
	if err != nil {
		if err != storage.ErrNotFound {
			p.logger.WarnContext(ctx, "currency selection read failed", applog.FieldError, err)
		}
		return
	}
	code := strings.TrimSpace(string(raw))
	if Supported(code) {
		p.mu.Lock()
		p.base = code
		p.mu.Unlock()
	}
}

// Run refreshes once immediately, then on every base change and every
// RefreshInterval, until ctx ends. The ticker is released on every exit
// path.
func (p *Provider) Run(ctx context.Context) error {
	p.Refresh(ctx)

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Refresh(ctx)
		case <-p.kick:
			p.Refresh(ctx)
		}
	}
}

// Refresh repopulates the rate table from the source. Failure leaves the
// previous table untouched and is logged, never fatal. If a refresh is
// already in flight the call returns immediately.
func (p *Provider) Refresh(ctx context.Context) {
	p.mu.Lock()
	if p.refreshing {
		p.mu.Unlock()
		return
	}
	p.refreshing = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.refreshing = false
		p.mu.Unlock()
	}()

	fresh, err := p.source.Fetch(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "rate refresh failed, keeping previous table", applog.FieldError, err)
		return
	}

	// The pivot anchors the table; the base must always read as exactly 1
	// against itself when it is the pivot. Rates are stored pivot-relative
	// regardless of the selected base.
	fresh[PivotCurrency] = 1

	p.mu.Lock()
	p.rates = fresh
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "rate table refreshed", "rates", len(fresh))
}

// BaseCurrency returns the currently selected base currency code.
func (p *Provider) BaseCurrency() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.base
}

// SetBaseCurrency switches the base currency, persists the selection and
// triggers a refresh.
func (p *Provider) SetBaseCurrency(ctx context.Context, code string) error {
	if !Supported(code) {
		return fmt.Errorf("unsupported currency %q", code)
	}

	p.mu.Lock()
	p.base = code
	p.mu.Unlock()

	if err := p.blob.Set(ctx, storage.CurrencyKey, []byte(code)); err != nil {
		p.logger.WarnContext(ctx, "currency selection persist failed", applog.FieldError, err, applog.FieldCurrency, code)
	}

	select {
	case p.kick <- struct{}{}:
	default: // refresh already pending
	}
	return nil
}

// Rates returns a copy of the current rate table.
func (p *Provider) Rates() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]float64, len(p.rates))
	for k, v := range p.rates {
		out[k] = v
	}
	return out
}

// Convert converts amount from one currency to another through the pivot.
// Identical codes convert without touching the rate table at all, so a
// missing rate can never corrupt a same-currency amount.
func (p *Provider) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	fromRate, ok := p.rates[from]
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRate, from)
	}
	toRate, ok := p.rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRate, to)
	}

	inPivot := amount / fromRate
	return inPivot * toRate, nil
}

// Format renders amount as a monetary string for the given currency code.
// Unknown codes fall back to a generic dollar-sign format instead of
// failing.
func Format(amount float64, code string) string {
	for _, c := range Currencies() {
		if c.Code == code {
			return c.Symbol + groupThousands(amount)
		}
	}
	return "$" + groupThousands(amount)
}

// groupThousands formats with two decimals and comma thousand separators.
func groupThousands(amount float64) string {
	neg := amount < 0
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	if neg {
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteString(fracPart)
	return b.String()
}
