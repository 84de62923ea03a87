package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"accountable/internal/amqp"
	"accountable/internal/log"
	"accountable/internal/storage"
)

func newTestWorker(t *testing.T) (*BackupWorker, *storage.MemoryStore, string) {
	t.Helper()
	dir := t.TempDir()
	blob := storage.NewMemoryStore()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewBackupWorker(blob, dir, logger), blob, dir
}

func TestHandleChangeMessageWritesBackup(t *testing.T) {
	w, blob, dir := newTestWorker(t)
	ctx := context.Background()

	snapshot := []byte(`{"expenses":[],"categories":[]}`)
	if err := blob.Set(ctx, storage.DataKey, snapshot); err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	msg := amqp.NewChangeMessage("transaction.add", storage.DataKey)
	if err := w.HandleChangeMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 backup file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, storage.DataKey+"-") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected backup name %q", name)
	}

	got, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != string(snapshot) {
		t.Fatalf("backup content = %s", got)
	}
}

func TestBackupMissingKeyIsNoop(t *testing.T) {
	w, _, dir := newTestWorker(t)

	if err := w.BackupKey(context.Background(), storage.DataKey); err != nil {
		t.Fatalf("missing key should not error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no backup files, got %d", len(entries))
	}
}

func TestPruneKeepsNewestBackups(t *testing.T) {
	w, blob, dir := newTestWorker(t)
	ctx := context.Background()

	if err := blob.Set(ctx, storage.DataKey, []byte(`{}`)); err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxBackups+5; i++ {
		w.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := w.BackupKey(ctx, storage.DataKey); err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(entries), MaxBackups)
	}

	// The oldest files must be gone.
	oldest := fmt.Sprintf("%s-%s.json", storage.DataKey, base.UTC().Format("20060102T150405"))
	for _, e := range entries {
		if e.Name() == oldest {
			t.Fatalf("oldest backup %q was not pruned", oldest)
		}
	}
}
