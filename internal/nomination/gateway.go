// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/taibuivan/laureate/internal/media"
	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/ctxutil"
	"github.com/taibuivan/laureate/internal/platform/metrics"
	"github.com/taibuivan/laureate/pkg/uuid"
)

// # Submission IDs

var (
	submissionIDPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)
	extensionPattern    = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)
)

// recordWriteTimeout bounds the dual write once the uploads are done.
const recordWriteTimeout = 15 * time.Second

// NewSubmissionID returns "NOM-<UTC yyyymmddhhmmss>-<6 base32 chars>".
func NewSubmissionID(now time.Time) string {
	var entropy [5]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		panic("nomination: entropy unavailable: " + err.Error())
	}

	suffix := base32.StdEncoding.EncodeToString(entropy[:])[:6]
	return "NOM-" + now.UTC().Format("20060102150405") + "-" + suffix
}

// ValidSubmissionID reports whether id has the submission ID alphabet.
func ValidSubmissionID(id string) bool {
	return len(id) <= 64 && submissionIDPattern.MatchString(id)
}

// # Contracts

// Upload is one file received with a submission.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Files groups the uploads of a submission.
type Files struct {
	Photo      *Upload
	Supporting []Upload
}

// PersistRecorder counts gateway outcomes.
type PersistRecorder interface {
	RecordPersist(outcome string)
}

// # Gateway

// Gateway turns a validated draft into a stored nomination.
type Gateway struct {
	primary  Repository
	backup   BackupStore
	media    media.Storage
	recorder PersistRecorder
	clock    func() time.Time
}

func NewGateway(primary Repository, backup BackupStore, storage media.Storage, recorder PersistRecorder) *Gateway {
	return &Gateway{
		primary:  primary,
		backup:   backup,
		media:    storage,
		recorder: recorder,
		clock:    time.Now,
	}
}

// WithClock replaces the time source.
func (gateway *Gateway) WithClock(clock func() time.Time) *Gateway {
	gateway.clock = clock
	return gateway
}

/*
Persist stores a validated draft and its files.

Flow:
 1. Generate the submission ID before any write.
 2. Upload photo and supporting files (blocking). A failure aborts here.
 3. Write the primary record and the backup snapshot independently.
 4. Combine both outcomes into a StorageReport.

Only the loss of both writes is an error. On that path the uploaded objects
are removed again.

Returns:
  - *Nomination: The stored record (nil on failure)
  - StorageReport: Outcome of the two writes
  - error: apperr.Internal when uploads or both writes failed
*/
func (gateway *Gateway) Persist(context context.Context, draft Draft, files Files) (*Nomination, StorageReport, error) {
	now := gateway.clock().UTC()
	submissionID := NewSubmissionID(now)

	context, logger := ctxutil.AnnotateLogger(context, slog.String("submission_id", submissionID))

	// 1. Uploads
	record := draft.Clone()
	uploaded, err := gateway.upload(context, submissionID, &record, files)
	if err != nil {
		gateway.discard(context, logger, uploaded)
		gateway.recorder.RecordPersist(metrics.OutcomeFailed)
		logger.Error("nomination_upload_failed", slog.Any("error", err))
		return nil, StorageReport{}, apperr.Internal(err)
	}

	nomination := &Nomination{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       StatusSubmitted,
		AdminReview:  AdminReview{Reviewed: false, Status: ReviewPending},
		SubmittedAt:  now,
		UpdatedAt:    now,
		Draft:        record,
	}

	// 2. Dual write, detached from client cancellation once uploads are complete
	writeContext, cancel := contextWithoutCancel(context, recordWriteTimeout)
	defer cancel()

	primaryErr := gateway.primary.Insert(writeContext, nomination)
	backupErr := gateway.backup.Write(writeContext, nomination)

	report, err := combine(primaryErr, backupErr)

	switch {
	case report.Failed():
		gateway.recorder.RecordPersist(metrics.OutcomeFailed)
		logger.Error("nomination_persist_failed", slog.Any("error", err))
		gateway.discard(context, logger, uploaded)
		return nil, report, apperr.Internal(err)

	case report.Degraded():
		gateway.recorder.RecordPersist(metrics.OutcomeDegraded)
		logger.Warn("nomination_persist_degraded",
			slog.Bool("primary", report.Primary),
			slog.Bool("backup", report.Backup),
			slog.Any("primary_error", primaryErr),
			slog.Any("backup_error", backupErr),
		)

	default:
		gateway.recorder.RecordPersist(metrics.OutcomeDurable)
		logger.Info("nomination_persisted", slog.String("category", nomination.AwardCategory))
	}

	return nomination, report, nil
}

// combine folds the two independent write outcomes. It errors only when both failed.
func combine(primaryErr, backupErr error) (StorageReport, error) {
	report := StorageReport{Primary: primaryErr == nil, Backup: backupErr == nil}
	if report.Failed() {
		return report, errors.Join(
			fmt.Errorf("primary write: %w", primaryErr),
			fmt.Errorf("backup write: %w", backupErr),
		)
	}
	return report, nil
}

// upload stores every file and records its reference on draft. It returns the
// keys written so far, also on failure.
func (gateway *Gateway) upload(context context.Context, submissionID string, draft *Draft, files Files) ([]string, error) {
	var keys []string
	prefix := "nominations/" + submissionID + "/"

	if files.Photo != nil {
		ref, err := gateway.put(context, prefix+"photo"+extensionFor(*files.Photo), *files.Photo)
		if err != nil {
			return keys, fmt.Errorf("upload photo: %w", err)
		}
		keys = append(keys, ref.Key)
		draft.Nominee.Photo = &ref
	}

	if len(files.Supporting) > 0 {
		draft.SupportingFiles = make([]FileRef, 0, len(files.Supporting))
	}
	for index, file := range files.Supporting {
		key := fmt.Sprintf("%ssupporting-%02d%s", prefix, index+1, extensionFor(file))
		ref, err := gateway.put(context, key, file)
		if err != nil {
			return keys, fmt.Errorf("upload supporting file %d: %w", index+1, err)
		}
		keys = append(keys, ref.Key)
		draft.SupportingFiles = append(draft.SupportingFiles, ref)
	}

	return keys, nil
}

func (gateway *Gateway) put(context context.Context, key string, file Upload) (FileRef, error) {
	object, err := gateway.media.Put(context, key, file.ContentType, file.Body, file.Size)
	if err != nil {
		return FileRef{}, err
	}

	return FileRef{
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        object.Size,
		Key:         object.Key,
		Location:    object.Location,
	}, nil
}

// discard removes uploaded objects of a submission that was not stored.
func (gateway *Gateway) discard(context context.Context, logger *slog.Logger, keys []string) {
	cleanupContext, cancel := contextWithoutCancel(context, recordWriteTimeout)
	defer cancel()

	for _, key := range keys {
		if err := gateway.media.Delete(cleanupContext, key); err != nil {
			logger.Warn("nomination_upload_cleanup_failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// extensionFor picks a safe file extension from the original name or the MIME type.
func extensionFor(file Upload) string {
	extension := strings.ToLower(filepath.Ext(file.Name))
	if extensionPattern.MatchString(extension) {
		return extension
	}

	if extensions, err := mime.ExtensionsByType(file.ContentType); err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}

func contextWithoutCancel(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
