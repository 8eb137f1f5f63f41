// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/laureate/internal/media"
	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/events"
)

// fixedNow is the clock used by every test in this package.
var fixedNow = time.Date(2026, time.June, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// words returns a statement of n words.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("impact ", n))
}

// validDraft returns a complete draft for a 17-year-old nominee, photo excluded.
func validDraft() nomination.Draft {
	return nomination.Draft{
		Nominee: nomination.Nominee{
			FirstName:   "Amina",
			LastName:    "Wanjiru",
			DateOfBirth: "2009-03-02",
			Gender:      nomination.GenderFemale,
			Email:       "amina@example.org",
			Phone:       "+254712345678",
			Nationality: nomination.NationalityCitizen,
			Location:    nomination.Location{County: "Nakuru", SubCounty: "Naivasha"},
			School:      nomination.School{Name: "Naivasha Girls", Level: nomination.SchoolSeniorSecondary, Grade: "Form 3"},
		},
		Nominator: nomination.Nominator{
			FirstName:    "Peter",
			LastName:     "Otieno",
			Email:        "peter@example.org",
			Phone:        "+254700000001",
			Relationship: nomination.NominatorTeacher,
			Organization: "Naivasha Girls",
		},
		AwardCategory:    "Environmental Conservation",
		ShortBio:         "Founder of a school tree nursery.",
		Achievements:     "Planted 4,000 indigenous trees with classmates.",
		Impact:           words(320),
		WhyDeserveAward:  "Consistent leadership on climate action.",
		SocialMediaLinks: nomination.SocialLinks{Instagram: "https://instagram.com/greennaivasha"},
		Referee: nomination.Referee{
			Name:         "Grace Muthoni",
			Email:        "grace@example.org",
			Position:     "Principal",
			Organization: "Naivasha Girls",
			Relationship: nomination.RefereeTeacher,
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

// withPhoto returns the draft with a photo reference, as the server sees it.
func withPhoto(draft nomination.Draft) nomination.Draft {
	draft.Nominee.Photo = &nomination.FileRef{Name: "amina.jpg", ContentType: "image/jpeg", Size: 2048}
	return draft
}

func photoUpload() *nomination.Upload {
	return &nomination.Upload{Name: "amina.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}
}

// # Fakes

type memoryRepository struct {
	mutex      sync.Mutex
	records    map[string]*nomination.Nomination
	insertErr  error
	readErr    error
	inserted   int
	lastFilter nomination.Filter
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: map[string]*nomination.Nomination{}}
}

func (repository *memoryRepository) Insert(_ context.Context, record *nomination.Nomination) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if repository.insertErr != nil {
		return repository.insertErr
	}
	if _, exists := repository.records[record.SubmissionID]; exists {
		return apperr.Conflict("Nomination already exists")
	}
	repository.records[record.SubmissionID] = record.Clone()
	repository.inserted++
	return nil
}

func (repository *memoryRepository) GetBySubmissionID(_ context.Context, submissionID string) (*nomination.Nomination, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if repository.readErr != nil {
		return nil, repository.readErr
	}
	record, ok := repository.records[submissionID]
	if !ok {
		return nil, apperr.NotFound("Nomination")
	}
	return record.Clone(), nil
}

func (repository *memoryRepository) List(_ context.Context, filter nomination.Filter, limit, offset int) ([]*nomination.Nomination, int, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	repository.lastFilter = filter
	var all []*nomination.Nomination
	for _, record := range repository.records {
		all = append(all, record.Clone())
	}
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (repository *memoryRepository) Update(_ context.Context, record *nomination.Nomination) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	current, ok := repository.records[record.SubmissionID]
	if !ok {
		return apperr.NotFound("Nomination")
	}
	updated := record.Clone()
	updated.AwardCategory = current.AwardCategory
	repository.records[record.SubmissionID] = updated
	return nil
}

func (repository *memoryRepository) Ping(context.Context) error { return nil }

type memoryBackup struct {
	mutex     sync.Mutex
	snapshots map[string]*nomination.Nomination
	writeErr  error
}

func newMemoryBackup() *memoryBackup {
	return &memoryBackup{snapshots: map[string]*nomination.Nomination{}}
}

func (backup *memoryBackup) Write(_ context.Context, record *nomination.Nomination) error {
	backup.mutex.Lock()
	defer backup.mutex.Unlock()

	if backup.writeErr != nil {
		return backup.writeErr
	}
	backup.snapshots[record.SubmissionID] = record.Clone()
	return nil
}

func (backup *memoryBackup) Read(_ context.Context, submissionID string) (*nomination.Nomination, error) {
	backup.mutex.Lock()
	defer backup.mutex.Unlock()

	record, ok := backup.snapshots[submissionID]
	if !ok {
		return nil, apperr.NotFound("Nomination")
	}
	return record.Clone(), nil
}

type memoryCache struct {
	mutex       sync.Mutex
	views       map[string]*nomination.StatusView
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{views: map[string]*nomination.StatusView{}}
}

func (cache *memoryCache) Get(_ context.Context, submissionID string) (*nomination.StatusView, error) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	if cache.getErr != nil {
		return nil, cache.getErr
	}
	view, ok := cache.views[submissionID]
	if !ok {
		return nil, apperr.NotFound("Cached status")
	}
	copied := *view
	return &copied, nil
}

func (cache *memoryCache) Set(_ context.Context, view *nomination.StatusView) error {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	copied := *view
	cache.views[view.SubmissionID] = &copied
	return nil
}

func (cache *memoryCache) Invalidate(_ context.Context, submissionID string) error {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	delete(cache.views, submissionID)
	cache.invalidated = append(cache.invalidated, submissionID)
	return nil
}

type memoryMedia struct {
	mutex   sync.Mutex
	objects map[string]string
	failOn  string
	deleted []string
}

func newMemoryMedia() *memoryMedia {
	return &memoryMedia{objects: map[string]string{}}
}

func (storage *memoryMedia) Put(_ context.Context, key, contentType string, body io.Reader, size int64) (media.Object, error) {
	storage.mutex.Lock()
	defer storage.mutex.Unlock()

	if storage.failOn != "" && strings.Contains(key, storage.failOn) {
		return media.Object{}, errors.New("bucket unavailable")
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return media.Object{}, err
	}
	storage.objects[key] = string(content)
	return media.Object{Key: key, Location: "mem://" + key, ContentType: contentType, Size: int64(len(content))}, nil
}

func (storage *memoryMedia) Delete(_ context.Context, key string) error {
	storage.mutex.Lock()
	defer storage.mutex.Unlock()

	delete(storage.objects, key)
	storage.deleted = append(storage.deleted, key)
	return nil
}

type recordingPublisher struct {
	mutex     sync.Mutex
	published []events.Event
	err       error
}

func (publisher *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()

	if publisher.err != nil {
		return publisher.err
	}
	publisher.published = append(publisher.published, event)
	return nil
}

func (publisher *recordingPublisher) Close() error { return nil }

func (publisher *recordingPublisher) types() []string {
	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()

	var types []string
	for _, event := range publisher.published {
		types = append(types, event.Type)
	}
	return types
}
