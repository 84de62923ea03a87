// Package worker implements the out-of-process backup consumer. It listens
// for state-change messages and mirrors the persisted snapshot to dated
// JSON files on disk.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"accountable/internal/amqp"
	"accountable/internal/log"
	"accountable/internal/storage"
)

// MaxBackups bounds how many snapshot files are kept per key.
const MaxBackups = 30

// BackupWorker copies the persisted application snapshot into a backup
// directory whenever a change message arrives.
type BackupWorker struct {
	blob   storage.Blob
	dir    string
	logger *log.Logger

	// now is injectable for tests.
	now func() time.Time
}

func NewBackupWorker(blob storage.Blob, dir string, logger *log.Logger) *BackupWorker {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentWorker})
	}
	return &BackupWorker{
		blob:   blob,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// HandleChangeMessage processes a single state-change message.
func (w *BackupWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing change message",
		"kind", msg.Kind,
		log.FieldKey, msg.Key)

	if err := w.BackupKey(ctx, msg.Key); err != nil {
		return fmt.Errorf("backup key %s: %w", msg.Key, err)
	}
	return nil
}

// BackupKey reads the current snapshot under key and writes it to a
// timestamped file. A missing key is not an error; there is simply nothing
// to back up yet.
func (w *BackupWorker) BackupKey(ctx context.Context, key string) error {
	raw, err := w.blob.Get(ctx, key)
	if err != nil {
		if err == storage.ErrNotFound {
			w.logger.WarnContext(ctx, "No snapshot to back up", log.FieldKey, key)
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", key, w.now().UTC().Format("20060102T150405"))
	path := filepath.Join(w.dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize backup file: %w", err)
	}

	w.logger.InfoContext(ctx, "Snapshot backed up",
		log.FieldKey, key,
		"file", path,
		"bytes", len(raw))

	if err := w.pruneOld(key); err != nil {
		w.logger.WarnContext(ctx, "Backup pruning failed", log.FieldKey, key, log.FieldError, err)
	}
	return nil
}

// StartupBackup takes an initial backup of the data key at worker startup.
// This covers changes that happened while the worker was down.
func (w *BackupWorker) StartupBackup(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Taking startup backup", log.FieldKey, storage.DataKey)
	return w.BackupKey(ctx, storage.DataKey)
}

// pruneOld removes the oldest backups of a key beyond MaxBackups. The
// timestamped file names sort chronologically.
func (w *BackupWorker) pruneOld(key string) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	var names []string
	prefix := key + "-"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= MaxBackups {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-MaxBackups] {
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil {
			return err
		}
	}
	return nil
}
