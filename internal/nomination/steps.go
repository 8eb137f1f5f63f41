// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"fmt"

	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/validate"
)

// StepCount is the number of form steps.
const StepCount = 7

var stepTitles = [StepCount]string{
	"Nominee",
	"Nominator",
	"Award Category",
	"Statements",
	"Documents",
	"Referee",
	"Consent",
}

// StepTitle returns the display title of a 1-based step, or "" when out of range.
func StepTitle(step int) string {
	if step < 1 || step > StepCount {
		return ""
	}
	return stepTitles[step-1]
}

// MeetsImpactFloor reports whether the impact statement has enough words.
// Both the step gate and server validation go through this function.
func MeetsImpactFloor(impact string) bool {
	return validate.WordCount(impact) >= ImpactMinWords
}

// IsStepComplete reports whether the draft satisfies the required fields of step.
func IsStepComplete(draft Draft, step int) bool {
	return step >= 1 && step <= StepCount && len(StepErrors(draft, step)) == 0
}

// StepErrors lists the missing fields of step (1..StepCount). It never mutates draft.
func StepErrors(draft Draft, step int) []apperr.FieldError {
	v := &validate.Validator{}

	switch step {
	case 1:
		nominee := draft.Nominee
		v.Required("nominee.firstName", nominee.FirstName).
			Required("nominee.lastName", nominee.LastName).
			Required("nominee.dateOfBirth", nominee.DateOfBirth).
			Required("nominee.gender", string(nominee.Gender)).
			Required("nominee.email", nominee.Email).
			Required("nominee.phone", nominee.Phone).
			Required("nominee.nationality", string(nominee.Nationality)).
			Required("nominee.location.county", nominee.Location.County)

	case 2:
		// Self-nominations are filled from the nominee by Prepare.
		nominator := draft.Nominator
		if !nominator.IsSelfNomination {
			v.Required("nominator.firstName", nominator.FirstName).
				Required("nominator.lastName", nominator.LastName).
				Required("nominator.email", nominator.Email).
				Required("nominator.phone", nominator.Phone).
				Required("nominator.relationship", string(nominator.Relationship))
		}

	case 3:
		v.Required("awardCategory", draft.AwardCategory)

	case 4:
		v.Required("shortBio", draft.ShortBio).
			Required("achievements", draft.Achievements).
			Custom("impact", !MeetsImpactFloor(draft.Impact), impactFloorMessage(draft.Impact))

	case 5:
		v.Custom("nominee.photo", draft.Nominee.Photo == nil, "A nominee photo is required")

	case 6:
		v.Required("referee.name", draft.Referee.Name).
			Required("referee.email", draft.Referee.Email)

	case 7:
		for _, path := range draft.Consent.Missing() {
			v.Custom(path, true, "This declaration must be accepted")
		}

	default:
		v.Custom("step", true, "Unknown step")
	}

	return v.Errors()
}

func impactFloorMessage(impact string) string {
	return fmt.Sprintf("Minimum %d words (currently %d)", ImpactMinWords, validate.WordCount(impact))
}
