// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
)

// # Contracts

// Filter narrows admin listings. Empty fields match everything.
type Filter struct {
	Statuses       []Status
	ReviewStatus   ReviewStatus
	Category       string
	Query          string
	IncludeDeleted bool
}

// Repository is the primary document store.
type Repository interface {
	// Insert stores a new nomination. A duplicate submission ID is a Conflict.
	Insert(context context.Context, nomination *Nomination) error

	// GetBySubmissionID returns apperr.NotFound when no record exists.
	GetBySubmissionID(context context.Context, submissionID string) (*Nomination, error)

	// List returns one page of nominations, newest first, and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Nomination, int, error)

	// Update replaces the review metadata of an existing nomination.
	Update(context context.Context, nomination *Nomination) error

	// Ping checks connectivity for readiness probes.
	Ping(context context.Context) error
}

// BackupStore keeps a redundant JSON snapshot per submission.
type BackupStore interface {
	Write(context context.Context, nomination *Nomination) error
	Read(context context.Context, submissionID string) (*Nomination, error)
}

// StatusCache memoizes applicant status lookups.
type StatusCache interface {
	// Get returns apperr.NotFound on a cache miss.
	Get(context context.Context, submissionID string) (*StatusView, error)
	Set(context context.Context, view *StatusView) error
	Invalidate(context context.Context, submissionID string) error
}
