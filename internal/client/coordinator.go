// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package client drives a nomination from the first form step to a stored
// submission.
//
// # Architecture
//
// A [Coordinator] ties together the applicant's [form.Store], the
// [stage.Stager] holding the selected files and a [Transport] to the API. It
// gates step navigation with the nomination step rules and owns the single
// outstanding submission of its session.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/laureate/internal/form"
	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/ctxutil"
	"github.com/taibuivan/laureate/internal/stage"
)

// SubmitTimeout is the default ceiling for one submission, uploads included.
const SubmitTimeout = 60 * time.Second

// Coordinator walks one applicant through the seven form steps.
type Coordinator struct {
	form      *form.Store
	stager    *stage.Stager
	transport Transport
	clock     func() time.Time
	timeout   time.Duration

	mutex    sync.Mutex
	step     int
	inFlight atomic.Bool
}

// NewCoordinator starts at step 1.
func NewCoordinator(store *form.Store, stager *stage.Stager, transport Transport) *Coordinator {
	return &Coordinator{
		form:      store,
		stager:    stager,
		transport: transport,
		clock:     time.Now,
		timeout:   SubmitTimeout,
		step:      1,
	}
}

// WithClock replaces the time source used for age derivation.
func (coordinator *Coordinator) WithClock(clock func() time.Time) *Coordinator {
	coordinator.clock = clock
	return coordinator
}

// WithSubmitTimeout replaces SubmitTimeout.
func (coordinator *Coordinator) WithSubmitTimeout(timeout time.Duration) *Coordinator {
	coordinator.timeout = timeout
	return coordinator
}

// # Navigation

// Step returns the current step, 1 to nomination.StepCount.
func (coordinator *Coordinator) Step() int {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	return coordinator.step
}

/*
Advance moves to the next step when the current one is complete.

On the final step a complete form stays where it is. Nothing in the draft is
changed either way.

Returns:
  - error: *StepError listing the blocking fields
*/
func (coordinator *Coordinator) Advance() error {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	draft := coordinator.form.Snapshot().Prepare(coordinator.clock())
	if fields := nomination.StepErrors(draft, coordinator.step); len(fields) > 0 {
		return &StepError{Step: coordinator.step, Title: nomination.StepTitle(coordinator.step), Fields: fields}
	}

	if coordinator.step < nomination.StepCount {
		coordinator.step++
	}
	return nil
}

// Retreat moves back one step. It never validates.
func (coordinator *Coordinator) Retreat() error {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.step <= 1 {
		return ErrFirstStep
	}
	coordinator.step--
	return nil
}

// # Files

// Stage adds a file and mirrors the staged files into the draft.
// A rejection is a *stage.FileError and leaves earlier files in place.
func (coordinator *Coordinator) Stage(slot stage.Slot, file stage.File) (stage.StagedFile, error) {
	staged, err := coordinator.stager.Stage(slot, file)
	if err != nil {
		return stage.StagedFile{}, err
	}
	coordinator.syncFiles()
	return staged, nil
}

// Unstage removes a staged file and releases its preview.
func (coordinator *Coordinator) Unstage(slot stage.Slot, index int) error {
	if err := coordinator.stager.Remove(slot, index); err != nil {
		return err
	}
	coordinator.syncFiles()
	return nil
}

func (coordinator *Coordinator) syncFiles() {
	if photo, ok := coordinator.stager.Photo(); ok {
		coordinator.form.SetPhoto(&nomination.FileRef{Name: photo.Name, ContentType: photo.ContentType, Size: photo.Size})
	} else {
		coordinator.form.SetPhoto(nil)
	}

	supporting := coordinator.stager.Supporting()
	refs := make([]nomination.FileRef, len(supporting))
	for i, file := range supporting {
		refs[i] = nomination.FileRef{Name: file.Name, ContentType: file.ContentType, Size: file.Size}
	}
	coordinator.form.SetSupportingFiles(refs)
}

// # Submission

/*
Submit sends the nomination from the final step.

Flow:
 1. Reject a second call while one is outstanding.
 2. Build the payload from a prepared draft snapshot and the staged files.
 3. Validate the consent step, then the whole draft.
 4. Send it with a ceiling of the submit timeout.
 5. On success clear the draft, release the files and return to step 1.

On any failure the draft, the staged files and the step are kept so the
applicant can retry.

Returns:
  - *nomination.Receipt: Submission ID, status and storage report
  - error: ErrSubmissionInFlight, ErrNotFinalStep, *StepError,
    *apperr.AppError (validation), *TransportError (retryable)
*/
func (coordinator *Coordinator) Submit(parent context.Context) (*nomination.Receipt, error) {
	if !coordinator.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer coordinator.inFlight.Store(false)

	if coordinator.Step() != nomination.StepCount {
		return nil, ErrNotFinalStep
	}

	now := coordinator.clock()
	draft := coordinator.form.Snapshot().Prepare(now)

	if fields := nomination.StepErrors(draft, nomination.StepCount); len(fields) > 0 {
		return nil, &StepError{Step: nomination.StepCount, Title: nomination.StepTitle(nomination.StepCount), Fields: fields}
	}
	if err := nomination.Validate(draft, now); err != nil {
		return nil, err
	}

	payload := Payload{Draft: draft}
	if photo, ok := coordinator.stager.Photo(); ok {
		payload.Photo = &photo.File
	}
	for _, staged := range coordinator.stager.Supporting() {
		payload.Supporting = append(payload.Supporting, staged.File)
	}

	submitContext, cancel := context.WithTimeout(parent, coordinator.timeout)
	defer cancel()

	receipt, err := coordinator.transport.Submit(submitContext, payload)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(submitContext.Err(), context.DeadlineExceeded) {
			return nil, &TransportError{Err: fmt.Errorf("no response within %s: %w", coordinator.timeout, err)}
		}
		return nil, err
	}

	coordinator.form.Reset()
	if err := coordinator.stager.Close(); err != nil {
		ctxutil.GetLogger(parent).Warn("preview_release_failed",
			slog.String("submission_id", receipt.SubmissionID),
			slog.Any("error", err),
		)
	}

	coordinator.mutex.Lock()
	coordinator.step = 1
	coordinator.mutex.Unlock()

	return receipt, nil
}
