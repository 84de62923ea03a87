package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"accountable/internal/currency"
)

type currencyOverview struct {
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
	Currencies []currency.Info    `json:"currencies"`
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currencyOverview{
		Base:       s.rates.BaseCurrency(),
		Rates:      s.rates.Rates(),
		Currencies: currency.Currencies(),
	})
}

type baseCurrencyPayload struct {
	Code string `json:"code"`
}

func (s *Server) handleSetBaseCurrency(w http.ResponseWriter, r *http.Request) {
	var p baseCurrencyPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.rates.SetBaseCurrency(r.Context(), p.Code); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, baseCurrencyPayload{Code: s.rates.BaseCurrency()})
}

type conversionResult struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Formatted string  `json:"formatted"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amountStr := strings.TrimSpace(q.Get("amount"))
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to currency codes are required")
		return
	}

	converted, err := s.rates.Convert(amount, from, to)
	if err != nil {
		if errors.Is(err, currency.ErrUnknownRate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, conversionResult{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Formatted: currency.Format(converted, to),
	})
}
