// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package form holds the in-progress nomination draft of one applicant.
//
// # Architecture
//
// The [Store] owns a single [nomination.Draft]. Every write produces a new
// snapshot; callers only ever receive deep copies, so a snapshot handed to a
// step validator or a transport never changes underneath it.
package form

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/laureate/internal/nomination"
)

var dateOfBirthPath = MustPath("nominee.dateOfBirth")

// Store is the form state of one nomination. It is safe for concurrent use.
type Store struct {
	mutex sync.RWMutex
	draft nomination.Draft
	clock func() time.Time
}

// New creates an empty store. A nil clock uses time.Now.
func New(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{clock: clock}
}

/*
Set writes one field and replaces the current snapshot.

Description: The value must have the field's kind: a string (or any string
type such as nomination.Gender) for text and enum fields, a bool for flags.
Setting nominee.dateOfBirth recomputes nominee.age; an unparsable or future
date resets the age to 0.

Returns:
  - error: ErrInvalidPath for a zero FieldPath, ErrTypeMismatch for a value of
    the wrong kind. The snapshot is unchanged on error.
*/
func (store *Store) Set(path FieldPath, value any) error {
	if !path.Valid() {
		return ErrInvalidPath
	}

	incoming := reflect.ValueOf(value)
	if !incoming.IsValid() || incoming.Kind() != path.kind {
		return fmt.Errorf("%w: %s expects %s, got %T", ErrTypeMismatch, path, path.kind, value)
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()

	next := store.draft.Clone()
	target := reflect.ValueOf(&next).Elem().FieldByIndex(path.index)
	target.Set(incoming.Convert(target.Type()))

	if path.raw == dateOfBirthPath.raw {
		next.Nominee.Age = store.ageOf(next.Nominee.DateOfBirth)
	}

	store.draft = next
	return nil
}

/*
SetText is Set for a value typed as text, e.g. from a command-line flag.

Flag fields accept the spellings of strconv.ParseBool ("true", "1", "false" ...).

Returns:
  - error: ErrTypeMismatch when a flag value is not a boolean, otherwise as Set
*/
func (store *Store) SetText(path FieldPath, text string) error {
	if path.kind != reflect.Bool {
		return store.Set(path, text)
	}

	flag, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("%w: %s expects true or false, got %q", ErrTypeMismatch, path, text)
	}
	return store.Set(path, flag)
}

// SetPhoto replaces the nominee photo reference. nil clears it.
func (store *Store) SetPhoto(photo *nomination.FileRef) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	next := store.draft.Clone()
	next.Nominee.Photo = nil
	if photo != nil {
		copied := *photo
		next.Nominee.Photo = &copied
	}
	store.draft = next
}

// SetSupportingFiles replaces the supporting file references.
func (store *Store) SetSupportingFiles(files []nomination.FileRef) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	next := store.draft.Clone()
	next.SupportingFiles = slices.Clone(files)
	store.draft = next
}

// Load replaces the whole draft, e.g. from a saved JSON file. Age is recomputed.
func (store *Store) Load(draft nomination.Draft) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	next := draft.Clone()
	next.Nominee.Age = store.ageOf(next.Nominee.DateOfBirth)
	store.draft = next
}

// Snapshot returns a deep copy of the current draft.
func (store *Store) Snapshot() nomination.Draft {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	return store.draft.Clone()
}

// Reset discards the draft.
func (store *Store) Reset() {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.draft = nomination.Draft{}
}

func (store *Store) ageOf(dateOfBirth string) int {
	age, _ := nomination.DeriveAge(dateOfBirth, store.clock())
	return age
}
