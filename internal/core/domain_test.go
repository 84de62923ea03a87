package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          NewID(),
		Amount:      12.50,
		Description: "coffee",
		CategoryID:  "1",
		Date:        "2025-03-14",
		Type:        Expense,
		CreatedAt:   time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"missing category", func(tx *Transaction) { tx.CategoryID = "" }, ErrMissingCategory},
		{"bad date", func(tx *Transaction) { tx.Date = "14/03/2025" }, ErrInvalidDate},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestZeroAmountIsAllowed(t *testing.T) {
	tx := Transaction{
		Amount:      0,
		Description: "freebie",
		CategoryID:  "1",
		Date:        "2025-01-01",
		Type:        Expense,
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}
}

func TestRecurringValidate(t *testing.T) {
	good := RecurringTransaction{
		Description: "rent",
		Amount:      800,
		CategoryID:  "5",
		Type:        Expense,
		Frequency:   Monthly,
		NextDate:    "2025-04-01",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Frequency = "fortnightly"
	if err := bad.Validate(); err != ErrInvalidFrequency {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestSeedCategories(t *testing.T) {
	cats := SeedCategories()
	if len(cats) != 7 {
		t.Fatalf("expected 7 seed categories, got %d", len(cats))
	}
	if cats[0].ID != FallbackCategoryID {
		t.Fatalf("first seed category must be the fallback, got %s", cats[0].ID)
	}
	for _, c := range cats {
		if !IsSeedCategory(c.ID) {
			t.Fatalf("seed category %s not recognized", c.ID)
		}
	}
	if IsSeedCategory("8") {
		t.Fatal("id 8 must not be a seed category")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.February || d.Day() != 28 {
		t.Fatalf("unexpected parsed date %v", d)
	}
	if _, err := ParseDate("not-a-date"); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
