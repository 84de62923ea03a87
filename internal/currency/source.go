package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Source fetches a fresh rate table anchored at the pivot currency.
type Source interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// StaticSource always returns the built-in default table. It stands in for
// a live feed in tests and offline use.
type StaticSource struct{}

func (StaticSource) Fetch(context.Context) (map[string]float64, error) {
	return DefaultRates(), nil
}

// HTTPSource fetches rates from a JSON endpoint of the common
// exchange-rate-API shape: {"rates": {"EUR": 0.85, ...}}. The request
// carries a hard timeout; a slow or failing feed is reported as an error so
// the caller keeps its previous table.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

const defaultFetchTimeout = 10 * time.Second

type ratesPayload struct {
	Rates map[string]float64 `json:"rates"`
}

func (s *HTTPSource) Fetch(ctx context.Context) (map[string]float64, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("decode rates: empty table")
	}
	return payload.Rates, nil
}
