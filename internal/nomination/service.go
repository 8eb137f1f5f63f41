// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/ctxutil"
	"github.com/taibuivan/laureate/internal/platform/events"
	"github.com/taibuivan/laureate/internal/platform/validate"
	"github.com/taibuivan/laureate/internal/stage"
	"github.com/taibuivan/laureate/pkg/pagination"
)

// # Contracts & Types

// ReviewRecorder counts admin actions.
type ReviewRecorder interface {
	RecordReview(action string)
}

// ReviewInput is the admin verdict payload. Nil fields keep their current value.
type ReviewInput struct {
	Status ReviewStatus `json:"status"`
	Notes  *string      `json:"notes"`
	Score  *int         `json:"score"`
}

// SubmittedEvent is the payload of EventSubmitted.
type SubmittedEvent struct {
	SubmissionID   string        `json:"submissionId"`
	AwardCategory  string        `json:"awardCategory"`
	CategorySlug   string        `json:"categorySlug"`
	NomineeName    string        `json:"nomineeName"`
	NominatorEmail string        `json:"nominatorEmail"`
	RefereeEmail   string        `json:"refereeEmail"`
	Storage        StorageReport `json:"storage"`
}

// StatusChangedEvent is the payload of EventStatusChanged.
type StatusChangedEvent struct {
	SubmissionID string       `json:"submissionId"`
	From         Status       `json:"from"`
	To           Status       `json:"to"`
	ReviewStatus ReviewStatus `json:"reviewStatus"`
	Actor        string       `json:"actor"`
}

// Service implements the nomination use cases.
type Service struct {
	gateway    *Gateway
	repository Repository
	backup     BackupStore
	cache      StatusCache
	publisher  events.Publisher
	recorder   ReviewRecorder
	clock      func() time.Time
	location   *time.Location
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	gateway *Gateway,
	repository Repository,
	backup BackupStore,
	cache StatusCache,
	publisher events.Publisher,
	recorder ReviewRecorder,
) *Service {
	return &Service{
		gateway:    gateway,
		repository: repository,
		backup:     backup,
		cache:      cache,
		publisher:  publisher,
		recorder:   recorder,
		clock:      time.Now,
		location:   time.UTC,
	}
}

// WithClock replaces the time source.
func (service *Service) WithClock(clock func() time.Time) *Service {
	service.clock = clock
	return service
}

// WithLocation sets the award timezone. Nominee ages are taken on the
// calendar date of this location.
func (service *Service) WithLocation(location *time.Location) *Service {
	if location != nil {
		service.location = location
	}
	return service
}

// # Submission

/*
Submit validates and stores a nomination.

Description: File references in the draft are replaced by the received
uploads, so the stored document only points at files the server accepted.
The submitted event is published best effort after the write.

Returns:
  - *Receipt: Submission ID, initial status and storage report
  - error: apperr.ValidationError or apperr.Internal
*/
func (service *Service) Submit(context context.Context, draft Draft, files Files) (*Receipt, error) {
	now := service.clock().In(service.location)
	prepared := draft.Prepare(now)

	prepared.Nominee.Photo = nil
	if files.Photo != nil {
		prepared.Nominee.Photo = &FileRef{Name: files.Photo.Name, ContentType: files.Photo.ContentType, Size: files.Photo.Size}
	}
	prepared.SupportingFiles = nil
	for _, file := range files.Supporting {
		prepared.SupportingFiles = append(prepared.SupportingFiles, FileRef{Name: file.Name, ContentType: file.ContentType, Size: file.Size})
	}

	if err := validateSubmission(prepared, files, now); err != nil {
		return nil, err
	}

	nomination, report, err := service.gateway.Persist(context, prepared, files)
	if err != nil {
		return nil, err
	}

	category, _ := LookupCategory(nomination.AwardCategory)
	service.publish(context, events.Event{
		Type:       EventSubmitted,
		Key:        nomination.SubmissionID,
		OccurredAt: nomination.SubmittedAt,
		Payload: SubmittedEvent{
			SubmissionID:   nomination.SubmissionID,
			AwardCategory:  nomination.AwardCategory,
			CategorySlug:   category.Slug,
			NomineeName:    nomination.Nominee.FirstName + " " + nomination.Nominee.LastName,
			NominatorEmail: nomination.Nominator.Email,
			RefereeEmail:   nomination.Referee.Email,
			Storage:        report,
		},
	})

	return &Receipt{SubmissionID: nomination.SubmissionID, Status: nomination.Status, Storage: report}, nil
}

// validateSubmission merges draft rules with the per-file checks.
func validateSubmission(draft Draft, files Files, now time.Time) error {
	var details []apperr.FieldError
	if err := Validate(draft, now); err != nil {
		appErr := apperr.As(err)
		if appErr == nil {
			return err
		}
		details = append(details, appErr.Details...)
	}

	if files.Photo != nil {
		if fileErr := stage.Check(stage.SlotPhoto, files.Photo.ContentType, files.Photo.Size, 0); fileErr != nil {
			details = append(details, fileFieldError("nominee.photo", fileErr))
		}
	}
	for index, file := range files.Supporting {
		if fileErr := stage.Check(stage.SlotSupporting, file.ContentType, file.Size, index); fileErr != nil {
			details = append(details, fileFieldError(fmt.Sprintf("supportingFiles[%d]", index), fileErr))
		}
	}

	if len(details) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", details...)
}

func fileFieldError(field string, fileErr *stage.FileError) apperr.FieldError {
	return apperr.FieldError{Field: field, Message: fmt.Sprintf("%s (%s)", fileErr.Message, fileErr.Constraint)}
}

// # Applicant status

/*
Status returns the applicant view of a submission.

Lookup order: status cache, primary store, backup snapshot. A submission
whose primary write failed is still reported from its backup.
*/
func (service *Service) Status(context context.Context, submissionID string) (*StatusView, error) {
	logger := ctxutil.GetLogger(context)

	if !ValidSubmissionID(submissionID) {
		return nil, apperr.NotFound("Nomination")
	}

	view, err := service.cache.Get(context, submissionID)
	if err == nil {
		return view, nil
	}
	if !apperr.HasCode(err, "NOT_FOUND") {
		logger.Warn("status_cache_unavailable", slog.Any("error", err))
	}

	nomination, err := service.find(context, submissionID)
	if err != nil {
		return nil, err
	}
	if nomination.Status == StatusDeleted {
		return nil, apperr.NotFound("Nomination")
	}

	view = statusViewOf(nomination)
	if err := service.cache.Set(context, view); err != nil {
		logger.Warn("status_cache_set_failed", slog.Any("error", err))
	}
	return view, nil
}

func statusViewOf(nomination *Nomination) *StatusView {
	return &StatusView{
		SubmissionID:  nomination.SubmissionID,
		Status:        nomination.Status,
		ReviewStatus:  nomination.AdminReview.Status,
		Message:       StatusMessage(nomination.Status, nomination.AdminReview.Status),
		AwardCategory: nomination.AwardCategory,
		SubmittedAt:   nomination.SubmittedAt,
	}
}

// find reads the primary store and falls back to the backup snapshot.
func (service *Service) find(context context.Context, submissionID string) (*Nomination, error) {
	nomination, primaryErr := service.repository.GetBySubmissionID(context, submissionID)
	if primaryErr == nil {
		return nomination, nil
	}

	snapshot, backupErr := service.backup.Read(context, submissionID)
	if backupErr == nil {
		ctxutil.GetLogger(context).Warn("nomination_served_from_backup",
			slog.String("submission_id", submissionID),
			slog.Any("primary_error", primaryErr),
		)
		return snapshot, nil
	}

	return nil, primaryErr
}

// # Admin review

// List returns one page of nominations for reviewers.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]*Nomination, int, error) {
	return service.repository.List(context, filter, page.Limit, page.Offset())
}

// Get returns a nomination, falling back to its backup snapshot.
func (service *Service) Get(context context.Context, submissionID string) (*Nomination, error) {
	if !ValidSubmissionID(submissionID) {
		return nil, apperr.NotFound("Nomination")
	}
	return service.find(context, submissionID)
}

/*
TransitionStatus moves a nomination along the status machine.

Returns:
  - *Nomination: The updated record
  - error: apperr.ValidationError (unknown status), apperr.Conflict (move not allowed), apperr.NotFound
*/
func (service *Service) TransitionStatus(context context.Context, submissionID string, to Status, actor string) (*Nomination, error) {
	if !to.Valid() {
		return nil, validate.RequiredError("status", "Unknown status")
	}

	nomination, err := service.repository.GetBySubmissionID(context, submissionID)
	if err != nil {
		return nil, err
	}

	from := nomination.Status
	if !CanTransition(from, to) {
		return nil, apperr.Conflict(fmt.Sprintf("Cannot move a nomination from %s to %s", from, to))
	}

	now := service.clock().UTC()
	updated := nomination.Clone()
	updated.Status = to
	updated.UpdatedAt = now
	updated.History = append(updated.History, StatusChange{From: from, To: to, Actor: actor, At: now})

	if err := service.save(context, updated, "status:"+string(to)); err != nil {
		return nil, err
	}

	service.publish(context, events.Event{
		Type:       EventStatusChanged,
		Key:        updated.SubmissionID,
		OccurredAt: now,
		Payload: StatusChangedEvent{
			SubmissionID: updated.SubmissionID,
			From:         from,
			To:           to,
			ReviewStatus: updated.AdminReview.Status,
			Actor:        actor,
		},
	})

	return updated, nil
}

// Review records an admin verdict on a nomination.
func (service *Service) Review(context context.Context, submissionID string, input ReviewInput, actor string) (*Nomination, error) {
	v := &validate.Validator{}
	v.Custom("status", !input.Status.Valid() || input.Status == ReviewPending, "Must be one of: approved, rejected, needs-info")
	if input.Notes != nil {
		v.MaxLen("notes", *input.Notes, maxStatementLength)
	}
	if input.Score != nil {
		v.Range("score", *input.Score, 0, 100)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	nomination, err := service.repository.GetBySubmissionID(context, submissionID)
	if err != nil {
		return nil, err
	}
	if nomination.Status == StatusDeleted {
		return nil, apperr.Conflict("Nomination has been deleted")
	}
	if !CanReview(nomination.AdminReview.Status, input.Status) {
		return nil, apperr.Conflict(fmt.Sprintf("Cannot change review from %s to %s", nomination.AdminReview.Status, input.Status))
	}

	now := service.clock().UTC()
	updated := nomination.Clone()
	updated.AdminReview.Reviewed = true
	updated.AdminReview.Status = input.Status
	updated.AdminReview.ReviewedBy = actor
	updated.AdminReview.ReviewedAt = &now
	if input.Notes != nil {
		updated.AdminReview.Notes = *input.Notes
	}
	if input.Score != nil {
		score := *input.Score
		updated.AdminReview.Score = &score
	}
	updated.UpdatedAt = now

	if err := service.save(context, updated, "review:"+string(input.Status)); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes a nomination.
func (service *Service) Delete(context context.Context, submissionID string, actor string) error {
	_, err := service.TransitionStatus(context, submissionID, StatusDeleted, actor)
	return err
}

/*
Restore copies a backup snapshot into the primary store.

Used after a degraded submission whose primary write failed. An existing
primary record is a Conflict.
*/
func (service *Service) Restore(context context.Context, submissionID string) (*Nomination, error) {
	if !ValidSubmissionID(submissionID) {
		return nil, apperr.NotFound("Nomination")
	}

	snapshot, err := service.backup.Read(context, submissionID)
	if err != nil {
		return nil, err
	}

	if err := service.repository.Insert(context, snapshot); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("nomination_restored_from_backup", slog.String("submission_id", submissionID))
	return snapshot, nil
}

// save writes an admin change to the primary store and refreshes the backup
// snapshot and the status cache.
func (service *Service) save(context context.Context, nomination *Nomination, action string) error {
	logger := ctxutil.GetLogger(context).With(slog.String("submission_id", nomination.SubmissionID))

	if err := service.repository.Update(context, nomination); err != nil {
		return err
	}

	if err := service.backup.Write(context, nomination); err != nil {
		logger.Warn("backup_write_failed", slog.Any("error", err))
	}
	if err := service.cache.Invalidate(context, nomination.SubmissionID); err != nil {
		logger.Warn("status_cache_invalidate_failed", slog.Any("error", err))
	}

	service.recorder.RecordReview(action)
	logger.Info("nomination_reviewed", slog.String("action", action))
	return nil
}

// publish delivers an event without failing the caller.
func (service *Service) publish(parent context.Context, event events.Event) {
	publishContext, cancel := contextWithoutCancel(parent, eventTimeout)
	defer cancel()

	if err := service.publisher.Publish(publishContext, event); err != nil {
		ctxutil.GetLogger(parent).Warn("nomination_event_publish_failed",
			slog.String("type", event.Type),
			slog.String("submission_id", event.Key),
			slog.Any("error", err),
		)
	}
}
