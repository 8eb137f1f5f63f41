// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laureate/internal/client"
	"github.com/taibuivan/laureate/internal/form"
	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/ctxutil"
	"github.com/taibuivan/laureate/internal/stage"
)

var today = time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

// completeDraft fills every step except the photo, which comes from the stager.
func completeDraft() nomination.Draft {
	return nomination.Draft{
		Nominee: nomination.Nominee{
			FirstName:   "Brian",
			LastName:    "Kiprop",
			DateOfBirth: "2010-07-15",
			Gender:      nomination.GenderMale,
			Email:       "brian@example.org",
			Phone:       "+254711000222",
			Nationality: nomination.NationalityCitizen,
			Location:    nomination.Location{County: "Uasin Gishu"},
			School:      nomination.School{Name: "Eldoret High", Level: nomination.SchoolSeniorSecondary},
		},
		Nominator:       nomination.Nominator{IsSelfNomination: true},
		AwardCategory:   "sports",
		ShortBio:        "Junior athletics champion.",
		Achievements:    "County 1500m record holder.",
		Impact:          strings.TrimSpace(strings.Repeat("running ", 310)),
		WhyDeserveAward: "Mentors younger runners every weekend.",
		Referee: nomination.Referee{
			Name:         "Coach Rono",
			Email:        "rono@example.org",
			Position:     "Athletics coach",
			Relationship: nomination.RefereeCoach,
		},
		Consent: nomination.Consent{
			AccurateInformation:  true,
			NomineePermission:    true,
			PublicRecognition:    true,
			BackgroundCheck:      true,
			DataUsage:            true,
			AntiFraudDeclaration: true,
		},
	}
}

func memoryFile(name, contentType, content string) stage.File {
	return stage.File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(content)), nil },
	}
}

// countingPreviews tracks previews that have not been released yet.
type countingPreviews struct {
	mutex sync.Mutex
	live  int

	// releaseErr is returned by every Release when set.
	releaseErr error
}

type countedPreview struct {
	provider *countingPreviews
	once     sync.Once
}

func (provider *countingPreviews) Acquire(stage.File) (stage.Preview, error) {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	provider.live++
	return &countedPreview{provider: provider}, nil
}

func (provider *countingPreviews) Live() int {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	return provider.live
}

func (preview *countedPreview) Ref() string { return "preview" }

func (preview *countedPreview) Release() error {
	preview.once.Do(func() {
		preview.provider.mutex.Lock()
		preview.provider.live--
		preview.provider.mutex.Unlock()
	})
	return preview.provider.releaseErr
}

// transportFunc adapts a function to client.Transport.
type transportFunc func(context.Context, client.Payload) (*nomination.Receipt, error)

func (fn transportFunc) Submit(ctx context.Context, payload client.Payload) (*nomination.Receipt, error) {
	return fn(ctx, payload)
}

func acceptingTransport(received *client.Payload) client.Transport {
	return transportFunc(func(_ context.Context, payload client.Payload) (*nomination.Receipt, error) {
		if received != nil {
			*received = payload
		}
		return &nomination.Receipt{
			SubmissionID: "NOM-20260615090000-ABCDEF",
			Status:       nomination.StatusSubmitted,
			Storage:      nomination.StorageReport{Primary: true, Backup: true},
		}, nil
	})
}

type coordinatorFixture struct {
	store       *form.Store
	stager      *stage.Stager
	previews    *countingPreviews
	coordinator *client.Coordinator
}

func newCoordinatorFixture(transport client.Transport) *coordinatorFixture {
	fixture := &coordinatorFixture{store: form.New(clock), previews: &countingPreviews{}}
	fixture.stager = stage.New(fixture.previews)
	fixture.coordinator = client.NewCoordinator(fixture.store, fixture.stager, transport).WithClock(clock)
	return fixture
}

// ready loads a complete draft, stages the files and advances to the final step.
func (fixture *coordinatorFixture) ready(t *testing.T) {
	t.Helper()
	fixture.store.Load(completeDraft())

	_, err := fixture.coordinator.Stage(stage.SlotPhoto, memoryFile("brian.png", "image/png", "png-bytes"))
	require.NoError(t, err)
	_, err = fixture.coordinator.Stage(stage.SlotSupporting, memoryFile("certificate.pdf", "application/pdf", "%PDF"))
	require.NoError(t, err)

	for fixture.coordinator.Step() < nomination.StepCount {
		require.NoError(t, fixture.coordinator.Advance(), "step %d", fixture.coordinator.Step())
	}
}

// # Navigation

func TestCoordinator_Advance_BlocksIncompleteStep(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	require.NoError(t, fixture.store.Set(form.MustPath("nominee.firstName"), "Brian"))

	err := fixture.coordinator.Advance()

	var stepErr *client.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Step)
	assert.NotEmpty(t, stepErr.Fields)
	assert.Equal(t, 1, fixture.coordinator.Step())
	assert.Equal(t, "Brian", fixture.store.Snapshot().Nominee.FirstName, "entered data is kept")
}

func TestCoordinator_Advance_ImpactFloor(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	draft := completeDraft()
	draft.Impact = strings.TrimSpace(strings.Repeat("word ", 299))
	fixture.store.Load(draft)

	for range 3 {
		require.NoError(t, fixture.coordinator.Advance())
	}
	require.Equal(t, 4, fixture.coordinator.Step())

	err := fixture.coordinator.Advance()
	var stepErr *client.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "impact", stepErr.Fields[0].Field)
	assert.Equal(t, 4, fixture.coordinator.Step())
}

func TestCoordinator_Navigation(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	assert.ErrorIs(t, fixture.coordinator.Retreat(), client.ErrFirstStep)

	fixture.ready(t)
	assert.Equal(t, nomination.StepCount, fixture.coordinator.Step())

	require.NoError(t, fixture.coordinator.Advance(), "final step is a bound, not an error")
	assert.Equal(t, nomination.StepCount, fixture.coordinator.Step())

	fixture.store.SetPhoto(nil)
	for step := nomination.StepCount; step > 1; step-- {
		require.NoError(t, fixture.coordinator.Retreat(), "retreat never validates")
	}
	assert.Equal(t, 1, fixture.coordinator.Step())
}

func TestCoordinator_Stage_SyncsDraft(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))

	_, err := fixture.coordinator.Stage(stage.SlotPhoto, memoryFile("brian.png", "image/png", "png"))
	require.NoError(t, err)
	_, err = fixture.coordinator.Stage(stage.SlotSupporting, memoryFile("a.pdf", "application/pdf", "a"))
	require.NoError(t, err)

	_, err = fixture.coordinator.Stage(stage.SlotPhoto, memoryFile("cv.pdf", "application/pdf", "x"))
	var fileErr *stage.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, stage.ConstraintType, fileErr.Constraint)

	snapshot := fixture.store.Snapshot()
	require.NotNil(t, snapshot.Nominee.Photo)
	assert.Equal(t, "brian.png", snapshot.Nominee.Photo.Name)
	require.Len(t, snapshot.SupportingFiles, 1)

	require.NoError(t, fixture.coordinator.Unstage(stage.SlotSupporting, 0))
	assert.Empty(t, fixture.store.Snapshot().SupportingFiles)
	assert.Equal(t, 1, fixture.previews.Live())
}

// # Submit

func TestCoordinator_Submit_Success(t *testing.T) {
	var received client.Payload
	fixture := newCoordinatorFixture(acceptingTransport(&received))
	fixture.ready(t)

	receipt, err := fixture.coordinator.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "NOM-20260615090000-ABCDEF", receipt.SubmissionID)

	assert.Equal(t, 15, received.Draft.Nominee.Age, "age is re-derived")
	assert.Equal(t, "Sports", received.Draft.AwardCategory)
	assert.Equal(t, nomination.NominatorSelf, received.Draft.Nominator.Relationship)
	assert.Equal(t, "brian@example.org", received.Draft.Nominator.Email)
	require.NotNil(t, received.Photo)
	assert.Equal(t, "brian.png", received.Photo.Name)
	assert.Len(t, received.Supporting, 1)

	assert.Equal(t, nomination.Draft{}, fixture.store.Snapshot())
	assert.Equal(t, 1, fixture.coordinator.Step())
	assert.Equal(t, 0, fixture.previews.Live())
	_, hasPhoto := fixture.stager.Photo()
	assert.False(t, hasPhoto)
}

func TestCoordinator_Submit_LogsPreviewReleaseFailure(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	fixture.ready(t)
	fixture.previews.releaseErr = errors.New("preview locked")

	var logs bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))

	receipt, err := fixture.coordinator.Submit(ctx)
	require.NoError(t, err, "a failed release does not undo a stored submission")
	assert.Equal(t, "NOM-20260615090000-ABCDEF", receipt.SubmissionID)

	assert.Contains(t, logs.String(), `"msg":"preview_release_failed"`)
	assert.Contains(t, logs.String(), "preview locked")
	assert.Zero(t, fixture.previews.Live())
	assert.Equal(t, 1, fixture.coordinator.Step())
}

func TestCoordinator_Submit_NotFinalStep(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	_, err := fixture.coordinator.Submit(context.Background())
	assert.ErrorIs(t, err, client.ErrNotFinalStep)
}

func TestCoordinator_Submit_ConsentWithdrawn(t *testing.T) {
	fixture := newCoordinatorFixture(acceptingTransport(nil))
	fixture.ready(t)
	require.NoError(t, fixture.store.Set(form.MustPath("consent.dataUsage"), false))

	_, err := fixture.coordinator.Submit(context.Background())

	var stepErr *client.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, nomination.StepCount, stepErr.Step)
}

/*
TestCoordinator_Submit_TransportFailureKeepsDraft checks that a failed send
leaves the draft, the staged files and the step untouched for a retry.
*/
func TestCoordinator_Submit_TransportFailureKeepsDraft(t *testing.T) {
	attempts := 0
	transport := transportFunc(func(ctx context.Context, payload client.Payload) (*nomination.Receipt, error) {
		attempts++
		if attempts == 1 {
			return nil, &client.TransportError{Err: errors.New("connection reset")}
		}
		return acceptingTransport(nil).Submit(ctx, payload)
	})

	fixture := newCoordinatorFixture(transport)
	fixture.ready(t)
	before := fixture.store.Snapshot()

	_, err := fixture.coordinator.Submit(context.Background())

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Retryable())
	assert.Equal(t, before, fixture.store.Snapshot())
	assert.Equal(t, nomination.StepCount, fixture.coordinator.Step())
	assert.Equal(t, 2, fixture.previews.Live())

	receipt, err := fixture.coordinator.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.SubmissionID)
}

func TestCoordinator_Submit_Timeout(t *testing.T) {
	hanging := transportFunc(func(ctx context.Context, _ client.Payload) (*nomination.Receipt, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	fixture := newCoordinatorFixture(hanging)
	fixture.coordinator.WithSubmitTimeout(20 * time.Millisecond)
	fixture.ready(t)

	_, err := fixture.coordinator.Submit(context.Background())

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, nomination.StepCount, fixture.coordinator.Step())
}

func TestCoordinator_Submit_RejectsConcurrentCalls(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := transportFunc(func(ctx context.Context, payload client.Payload) (*nomination.Receipt, error) {
		close(entered)
		<-release
		return acceptingTransport(nil).Submit(ctx, payload)
	})

	fixture := newCoordinatorFixture(blocking)
	fixture.ready(t)

	done := make(chan error, 1)
	go func() {
		_, err := fixture.coordinator.Submit(context.Background())
		done <- err
	}()

	<-entered
	_, err := fixture.coordinator.Submit(context.Background())
	assert.ErrorIs(t, err, client.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
}
