package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// FallbackCategoryID receives transactions whose category is deleted.
const FallbackCategoryID = "1"

type (
	TransactionType string

	Frequency string

	Transaction struct {
		ID          string          `json:"id"`
		Amount      float64         `json:"amount"`
		Description string          `json:"description"`
		CategoryID  string          `json:"categoryId"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Type        TransactionType `json:"type"`
		Currency    string          `json:"currency,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon,omitempty"`
	}

	Budgets struct {
		Monthly float64 `json:"monthly"`
		Yearly  float64 `json:"yearly"`
	}

	Goal struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		TargetAmount  float64   `json:"targetAmount"`
		CurrentAmount float64   `json:"currentAmount"`
		Deadline      string    `json:"deadline,omitempty"` // YYYY-MM-DD
		Category      string    `json:"category"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	RecurringTransaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		CategoryID  string          `json:"categoryId"`
		Type        TransactionType `json:"type"`
		Frequency   Frequency       `json:"frequency"`
		NextDate    string          `json:"nextDate"` // YYYY-MM-DD
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingCategory  = errors.New("missing category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyName        = errors.New("empty name")
)

// DateLayout is the calendar-date format used throughout (no time of day).
const DateLayout = "2006-01-02"

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (tt TransactionType) Valid() bool {
	switch tt {
	case Expense, Income:
		return true
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrMissingCategory
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.Deadline != "" {
		if _, err := ParseDate(g.Deadline); err != nil {
			return err
		}
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrMissingCategory
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if _, err := ParseDate(r.NextDate); err != nil {
		return err
	}
	return nil
}

// SeedCategories returns the fixed starter categories. Ids "1".."7" are
// treated as non-deletable by the API layer; id "1" is the reassignment
// target when any other category is deleted.
func SeedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Food", Color: "#00D1FF", Icon: "🍕"},
		{ID: "2", Name: "Transport", Color: "#39FF14", Icon: "🚗"},
		{ID: "3", Name: "Entertainment", Color: "#8E44AD", Icon: "🎬"},
		{ID: "4", Name: "Shopping", Color: "#FF4500", Icon: "🛍️"},
		{ID: "5", Name: "Bills", Color: "#BDC3C7", Icon: "📄"},
		{ID: "6", Name: "Healthcare", Color: "#FF6B6B", Icon: "🏥"},
		{ID: "7", Name: "Income", Color: "#39FF14", Icon: "💰"},
	}
}

// IsSeedCategory reports whether id belongs to the fixed starter set.
func IsSeedCategory(id string) bool {
	switch id {
	case "1", "2", "3", "4", "5", "6", "7":
		return true
	}
	return false
}
