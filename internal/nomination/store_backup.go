// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taibuivan/laureate/internal/platform/apperr"
)

// FileBackupStore writes one "<submissionId>.json" file per nomination.
type FileBackupStore struct {
	dir string
}

// NewFileBackupStore creates the backup directory if needed.
func NewFileBackupStore(dir string) (*FileBackupStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("backup_dir_create_failed: %w", err)
	}
	return &FileBackupStore{dir: dir}, nil
}

/*
Write stores the full nomination document.

The snapshot is written to a temp file, synced and renamed, so a crash never
leaves a truncated backup behind. An existing snapshot is replaced.
*/
func (store *FileBackupStore) Write(context context.Context, nomination *Nomination) error {
	if err := context.Err(); err != nil {
		return err
	}

	target, err := store.path(nomination.SubmissionID)
	if err != nil {
		return err
	}

	document, err := json.MarshalIndent(nomination, "", "  ")
	if err != nil {
		return fmt.Errorf("backup_encode_failed: %w", err)
	}

	temp, err := os.CreateTemp(store.dir, ".backup-*")
	if err != nil {
		return fmt.Errorf("backup_create_failed: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(document); err != nil {
		temp.Close()
		return fmt.Errorf("backup_write_failed: %w", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return fmt.Errorf("backup_sync_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("backup_close_failed: %w", err)
	}

	if err := os.Rename(temp.Name(), target); err != nil {
		return fmt.Errorf("backup_rename_failed: %w", err)
	}
	return nil
}

// Read loads a snapshot. A missing file is apperr.NotFound.
func (store *FileBackupStore) Read(context context.Context, submissionID string) (*Nomination, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	target, err := store.path(submissionID)
	if err != nil {
		return nil, apperr.NotFound("Nomination")
	}

	document, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("Nomination")
	}
	if err != nil {
		return nil, fmt.Errorf("backup_read_failed: %w", err)
	}

	return decodeDocument(document)
}

// Writable verifies the directory accepts new files. Used by readiness probes.
func (store *FileBackupStore) Writable() error {
	probe, err := os.CreateTemp(store.dir, ".probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func (store *FileBackupStore) path(submissionID string) (string, error) {
	if !ValidSubmissionID(submissionID) {
		return "", fmt.Errorf("backup_invalid_submission_id: %q", submissionID)
	}
	return filepath.Join(store.dir, submissionID+".json"), nil
}
