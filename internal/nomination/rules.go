// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"fmt"
	"sort"
	"time"

	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/validate"
)

/*
Validate applies every submission rule to a prepared draft.

It is the union of all step gates plus format, enumeration and range checks.
Age is recomputed from dateOfBirth on the calendar date of now in its own
location; the age field sent by a client is ignored.

Returns:
  - error: *apperr.AppError (VALIDATION_ERROR) listing every failed field, or nil
*/
func Validate(draft Draft, now time.Time) error {
	var details []apperr.FieldError
	for step := 1; step <= StepCount; step++ {
		details = append(details, StepErrors(draft, step)...)
	}

	v := &validate.Validator{}
	validateNominee(v, draft.Nominee, now)
	validateNominator(v, draft.Nominator)

	if draft.AwardCategory != "" {
		v.OneOf("awardCategory", draft.AwardCategory, CategoryNames()...)
	}

	v.MaxLen("shortBio", draft.ShortBio, maxShortBioLength).
		MaxLen("achievements", draft.Achievements, maxStatementLength).
		MaxLen("impact", draft.Impact, maxStatementLength).
		MaxLen("whyDeserveAward", draft.WhyDeserveAward, maxStatementLength).
		MaxLen("additionalInfo", draft.AdditionalInfo, maxStatementLength)

	links := draft.SocialMediaLinks.Fields()
	paths := make([]string, 0, len(links))
	for path := range links {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		v.URL(path, links[path])
	}

	v.Custom("supportingFiles", len(draft.SupportingFiles) > MaxSupportingFiles,
		fmt.Sprintf("At most %d supporting files", MaxSupportingFiles))

	validateReferee(v, draft.Referee)

	details = append(details, v.Errors()...)
	if len(details) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", details...)
}

func validateNominee(v *validate.Validator, nominee Nominee, now time.Time) {
	v.MaxLen("nominee.firstName", nominee.FirstName, maxNameLength).
		MaxLen("nominee.middleName", nominee.MiddleName, maxNameLength).
		MaxLen("nominee.lastName", nominee.LastName, maxNameLength)

	if nominee.DateOfBirth != "" {
		_, err := ParseDateOfBirth(nominee.DateOfBirth)
		age, ok := DeriveAge(nominee.DateOfBirth, now)
		switch {
		case err != nil:
			v.Custom("nominee.dateOfBirth", true, "Must be a date in YYYY-MM-DD format")
		case !ok:
			v.Custom("nominee.dateOfBirth", true, "Date of birth cannot be in the future")
		default:
			v.Custom("nominee.dateOfBirth", age < MinNomineeAge || age > MaxNomineeAge,
				fmt.Sprintf("Nominee must be between %d and %d years old (currently %d)", MinNomineeAge, MaxNomineeAge, age))
		}
	}

	if nominee.Gender != "" {
		v.OneOf("nominee.gender", string(nominee.Gender), string(GenderMale), string(GenderFemale))
	}
	if nominee.Email != "" {
		v.Email("nominee.email", nominee.Email)
	}
	if nominee.Phone != "" {
		v.Phone("nominee.phone", nominee.Phone)
	}
	if nominee.Nationality != "" {
		v.OneOf("nominee.nationality", string(nominee.Nationality), string(NationalityCitizen), string(NationalityResident))
	}
	if nominee.School.Level != "" {
		v.OneOf("nominee.school.level", string(nominee.School.Level),
			string(SchoolPrimary), string(SchoolJuniorSecondary), string(SchoolSeniorSecondary),
			string(SchoolTertiary), string(SchoolNone))
	}
}

func validateNominator(v *validate.Validator, nominator Nominator) {
	if nominator.Email != "" {
		v.Email("nominator.email", nominator.Email)
	}
	if nominator.Phone != "" {
		v.Phone("nominator.phone", nominator.Phone)
	}
	if nominator.Relationship != "" {
		v.OneOf("nominator.relationship", string(nominator.Relationship),
			string(NominatorParent), string(NominatorGuardian), string(NominatorTeacher), string(NominatorMentor),
			string(NominatorCommunityLeader), string(NominatorPeer), string(NominatorSelf), string(NominatorOther))
	}
	v.Custom("nominator.relationship",
		nominator.Relationship == NominatorSelf && !nominator.IsSelfNomination,
		"Use the self-nomination option to nominate yourself")
}

func validateReferee(v *validate.Validator, referee Referee) {
	v.MaxLen("referee.name", referee.Name, maxNameLength)
	if referee.Email != "" {
		v.Email("referee.email", referee.Email)
	}
	if referee.Phone != "" {
		v.Phone("referee.phone", referee.Phone)
	}
	if referee.Relationship != "" {
		v.OneOf("referee.relationship", string(referee.Relationship),
			string(RefereeTeacher), string(RefereeMentor), string(RefereeEmployer), string(RefereeCommunityLeader),
			string(RefereeReligiousLeader), string(RefereeCoach), string(RefereeOther))
	}
}
