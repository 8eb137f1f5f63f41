// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import "time"

const (
	// ImpactMinWords is the word floor for the impact statement.
	ImpactMinWords = 300

	// MinNomineeAge and MaxNomineeAge bound the nominee's age on submission day.
	MinNomineeAge = 13
	MaxNomineeAge = 19

	// MaxSupportingFiles mirrors the file stager limit.
	MaxSupportingFiles = 5

	// DateLayout is the wire format of dateOfBirth.
	DateLayout = "2006-01-02"

	// EventSubmitted is published after a nomination is stored.
	EventSubmitted = "nomination.submitted"
	// EventStatusChanged is published after an admin moves a nomination.
	EventStatusChanged = "nomination.status_changed"

	// eventTimeout bounds the best-effort publish after a request finished its work.
	eventTimeout = 5 * time.Second

	// Field length caps applied by server validation.
	maxNameLength      = 100
	maxStatementLength = 20000
	maxShortBioLength  = 2000
)
