package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"accountable/internal/core"
	applog "accountable/internal/log"
	"accountable/internal/storage"
)

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelError})
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	blob := storage.NewMemoryStore()
	s := New(blob, testLogger())
	return s, blob
}

func draftTx(desc string, amount float64, catID string, typ core.TransactionType) core.Transaction {
	return core.Transaction{
		Amount:      amount,
		Description: desc,
		CategoryID:  catID,
		Date:        "2025-03-10",
		Type:        typ,
	}
}

func TestAddTransactionPrepends(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := s.AddTransaction(ctx, draftTx("salary", 1000, "7", core.Income))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	txs := s.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != second.ID || txs[1].ID != first.ID {
		t.Fatal("most recent transaction must come first")
	}
	if txs[0].ID == txs[1].ID {
		t.Fatal("ids must be unique")
	}
	if txs[0].CreatedAt.IsZero() {
		t.Fatal("createdAt must be assigned")
	}
}

func TestAddTransactionRejectsInvalidDraft(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTransaction(ctx, draftTx("", 42, "1", core.Expense))
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatal("rejected draft must not be stored")
	}
}

func TestUpdateAndDeleteUnknownIDAreNoOps(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tx, _ := s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))

	ghost := tx
	ghost.ID = "does-not-exist"
	ghost.Description = "ghost"
	if err := s.UpdateTransaction(ctx, ghost); err != nil {
		t.Fatalf("update unknown id must not error: %v", err)
	}
	s.DeleteTransaction(ctx, "also-missing")

	txs := s.Transactions()
	if len(txs) != 1 || txs[0].Description != "groceries" {
		t.Fatalf("state must be unchanged, got %+v", txs)
	}
}

func TestUpdateTransactionReplacesWholesale(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tx, _ := s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))
	tx.Amount = 55
	tx.Description = "groceries and wine"
	if err := s.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := s.Transactions()[0]
	if got.Amount != 55 || got.Description != "groceries and wine" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestReplayMatchesDirectApplication(t *testing.T) {
	// The same logical operations applied through the store and through
	// bare reductions must yield the same collection.
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.AddTransaction(ctx, draftTx("a", 1, "1", core.Expense))
	b, _ := s.AddTransaction(ctx, draftTx("b", 2, "2", core.Expense))
	c, _ := s.AddTransaction(ctx, draftTx("c", 3, "3", core.Income))
	b.Amount = 20
	s.UpdateTransaction(ctx, b)
	s.DeleteTransaction(ctx, a.ID)

	replayed := DefaultState()
	for _, act := range []Action{
		AddTransaction{Transaction: a},
		AddTransaction{Transaction: b0(b)},
		AddTransaction{Transaction: c},
		UpdateTransaction{Transaction: b},
		DeleteTransaction{ID: a.ID},
	} {
		replayed = Reduce(replayed, act)
	}

	got := s.Transactions()
	if len(got) != len(replayed.Transactions) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(replayed.Transactions))
	}
	for i := range got {
		if got[i] != replayed.Transactions[i] {
			t.Fatalf("item %d differs: %+v vs %+v", i, got[i], replayed.Transactions[i])
		}
	}
}

// b0 undoes the amount edit so the replay starts from the original record.
func b0(tx core.Transaction) core.Transaction {
	tx.Amount = 2
	return tx
}

func TestDeleteCategoryReassignsTransactions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.AddTransaction(ctx, draftTx("mall", 80, "4", core.Expense))
	s.AddTransaction(ctx, draftTx("shoes", 120, "4", core.Expense))
	s.AddTransaction(ctx, draftTx("bus", 3, "2", core.Expense))

	s.DeleteCategory(ctx, "4")

	for _, c := range s.Categories() {
		if c.ID == "4" {
			t.Fatal("category 4 must be removed")
		}
	}
	known := make(map[string]bool)
	for _, c := range s.Categories() {
		known[c.ID] = true
	}
	reassigned := 0
	for _, tx := range s.Transactions() {
		if !known[tx.CategoryID] {
			t.Fatalf("dangling category reference %q", tx.CategoryID)
		}
		if tx.CategoryID == core.FallbackCategoryID {
			reassigned++
		}
	}
	if reassigned != 2 {
		t.Fatalf("expected 2 transactions reassigned to fallback, got %d", reassigned)
	}
}

func TestUpdateBudgetShallowMerges(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	monthly := 900.0
	s.UpdateBudget(ctx, &monthly, nil)
	if b := s.Budgets(); b.Monthly != 900 || b.Yearly != 14400 {
		t.Fatalf("monthly-only update wrong: %+v", b)
	}

	yearly := 10000.0
	s.UpdateBudget(ctx, nil, &yearly)
	if b := s.Budgets(); b.Monthly != 900 || b.Yearly != 10000 {
		t.Fatalf("yearly-only update wrong: %+v", b)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, blob := newTestStore(t)
	ctx := context.Background()

	s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))
	s.AddCategory(ctx, core.Category{Name: "Pets", Color: "#FFFFFF"})
	monthly := 800.0
	s.UpdateBudget(ctx, &monthly, nil)
	before := s.Snapshot()

	reloaded := New(blob, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	after := reloaded.Snapshot()

	if len(after.Transactions) != len(before.Transactions) {
		t.Fatalf("transactions differ: %d vs %d", len(after.Transactions), len(before.Transactions))
	}
	for i := range before.Transactions {
		bt, at := before.Transactions[i], after.Transactions[i]
		if bt.ID != at.ID || bt.Amount != at.Amount || bt.Description != at.Description ||
			bt.CategoryID != at.CategoryID || bt.Date != at.Date || bt.Type != at.Type ||
			!bt.CreatedAt.Equal(at.CreatedAt) {
			t.Fatalf("transaction %d differs: %+v vs %+v", i, bt, at)
		}
	}
	if len(after.Categories) != len(before.Categories) {
		t.Fatalf("categories differ")
	}
	if after.Budgets != before.Budgets {
		t.Fatalf("budgets differ: %+v vs %+v", after.Budgets, before.Budgets)
	}
}

func TestLoadShallowMergesOverDefaults(t *testing.T) {
	// An old snapshot that only knows about expenses must keep the default
	// categories and budgets.
	blob := storage.NewMemoryStore()
	ctx := context.Background()
	old := `{"expenses":[{"id":"x","amount":5,"description":"old","categoryId":"1","date":"2024-01-01","type":"expense","createdAt":"2024-01-01T00:00:00Z"}]}`
	blob.Set(ctx, storage.DataKey, []byte(old))

	s := New(blob, testLogger())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(s.Transactions()) != 1 {
		t.Fatalf("expected 1 transaction from snapshot")
	}
	if len(s.Categories()) != 7 {
		t.Fatalf("default categories must survive, got %d", len(s.Categories()))
	}
	if s.Budgets().Monthly != 1200 {
		t.Fatalf("default budget must survive, got %v", s.Budgets().Monthly)
	}
}

func TestLoadMalformedSnapshotFallsBackToDefaults(t *testing.T) {
	blob := storage.NewMemoryStore()
	ctx := context.Background()
	blob.Set(ctx, storage.DataKey, []byte(`{not json`))

	s := New(blob, testLogger())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load must not propagate parse errors: %v", err)
	}
	if len(s.Categories()) != 7 || s.Budgets().Monthly != 1200 {
		t.Fatal("expected default state after parse failure")
	}
}

func TestUnknownSnapshotFieldsRoundTrip(t *testing.T) {
	blob := storage.NewMemoryStore()
	ctx := context.Background()
	withExtra := `{"expenses":[],"categories":[],"budgets":{"monthly":500,"yearly":6000},"customField":{"nested":true}}`
	blob.Set(ctx, storage.DataKey, []byte(withExtra))

	s := New(blob, testLogger())
	s.Load(ctx)
	s.AddTransaction(ctx, draftTx("after reload", 10, "1", core.Expense))

	raw, err := blob.Get(ctx, storage.DataKey)
	if err != nil {
		t.Fatalf("get persisted snapshot: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse persisted snapshot: %v", err)
	}
	extra, ok := doc["customField"]
	if !ok {
		t.Fatal("unknown field dropped on persist")
	}
	if string(extra) != `{"nested":true}` {
		t.Fatalf("unknown field corrupted: %s", extra)
	}
}

func TestReloadPicksUpAnotherWritersChanges(t *testing.T) {
	// Two stores sharing one blob, like the server and the recurring worker.
	// A store that reloads before mutating must not clobber what the other
	// one persisted in the meantime.
	blob := storage.NewMemoryStore()
	ctx := context.Background()

	server := New(blob, testLogger())
	server.Load(ctx)
	worker := New(blob, testLogger())
	worker.Load(ctx)

	server.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))

	if err := worker.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	worker.AddTransaction(ctx, draftTx("rent", 800, "5", core.Expense))

	reread := New(blob, testLogger())
	reread.Load(ctx)
	if got := len(reread.Transactions()); got != 2 {
		t.Fatalf("one writer discarded the other's transactions: persisted %d of 2", got)
	}
}

type failingBlob struct{ storage.MemoryStore }

func (f *failingBlob) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestMutationSurvivesPersistFailure(t *testing.T) {
	blob := &failingBlob{}
	s := New(blob, testLogger())
	ctx := context.Background()

	if _, err := s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense)); err != nil {
		t.Fatalf("add must succeed in memory: %v", err)
	}
	if len(s.Transactions()) != 1 {
		t.Fatal("in-memory state is the source of truth for the session")
	}
}

// gatedBlob stalls inside Set until released, exposing the window between
// reducing in memory and finishing the durable write.
type gatedBlob struct {
	*storage.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func newGatedBlob() *gatedBlob {
	return &gatedBlob{
		MemoryStore: storage.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (b *gatedBlob) Set(ctx context.Context, key string, value []byte) error {
	b.entered <- struct{}{}
	<-b.release
	return b.MemoryStore.Set(ctx, key, value)
}

func TestConcurrentDispatchesPersistInOrder(t *testing.T) {
	// With one write stalled mid-flight, a second mutation must not start
	// its own write, or the blob could end up holding the older snapshot.
	blob := newGatedBlob()
	s := New(blob, testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.AddTransaction(ctx, draftTx("first", 1, "1", core.Expense))
	}()
	<-blob.entered // first write is now in flight

	go func() {
		defer wg.Done()
		s.AddTransaction(ctx, draftTx("second", 2, "1", core.Expense))
	}()

	select {
	case <-blob.entered:
		t.Fatal("second write started while the first was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	blob.release <- struct{}{} // let the first write finish
	<-blob.entered             // second write proceeds only now
	blob.release <- struct{}{}
	wg.Wait()

	raw, err := blob.MemoryStore.Get(ctx, storage.DataKey)
	if err != nil {
		t.Fatalf("get persisted snapshot: %v", err)
	}
	var doc struct {
		Expenses []core.Transaction `json:"expenses"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse persisted snapshot: %v", err)
	}
	if len(doc.Expenses) != 2 {
		t.Fatalf("persisted snapshot is stale: holds %d transactions while memory holds %d",
			len(doc.Expenses), len(s.Transactions()))
	}
}

type recordingPublisher struct {
	kinds []string
}

func (p *recordingPublisher) PublishChange(_ context.Context, kind string) error {
	p.kinds = append(p.kinds, kind)
	return nil
}

func TestPublisherNotifiedAfterPersist(t *testing.T) {
	blob := storage.NewMemoryStore()
	pub := &recordingPublisher{}
	s := New(blob, testLogger(), WithPublisher(pub))
	ctx := context.Background()

	s.AddTransaction(ctx, draftTx("groceries", 42, "1", core.Expense))
	s.DeleteCategory(ctx, "4")

	if len(pub.kinds) != 2 || pub.kinds[0] != "transaction.add" || pub.kinds[1] != "category.delete" {
		t.Fatalf("unexpected publish sequence: %v", pub.kinds)
	}
}

func TestClockInjection(t *testing.T) {
	blob := storage.NewMemoryStore()
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(blob, testLogger(), WithClock(func() time.Time { return fixed }))

	tx, _ := s.AddTransaction(context.Background(), draftTx("groceries", 42, "1", core.Expense))
	if !tx.CreatedAt.Equal(fixed) {
		t.Fatalf("expected injected clock, got %v", tx.CreatedAt)
	}
}
