// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"strings"
	"time"
)

// ParseDateOfBirth parses a YYYY-MM-DD date.
func ParseDateOfBirth(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// AgeOn returns the whole years between birth and the calendar date of now in
// now's own location. A birthday later in the current year has not been
// reached yet.
func AgeOn(birth, now time.Time) int {
	birthYear, birthMonth, birthDay := birth.Date()
	nowYear, nowMonth, nowDay := now.Date()

	age := nowYear - birthYear
	if nowMonth < birthMonth || (nowMonth == birthMonth && nowDay < birthDay) {
		age--
	}
	return age
}

// DeriveAge computes the age for a dateOfBirth string as of the calendar date
// of now in now's location. ok is false when the date cannot be parsed or
// lies after that date.
func DeriveAge(dateOfBirth string, now time.Time) (age int, ok bool) {
	birth, err := ParseDateOfBirth(dateOfBirth)
	if err != nil {
		return 0, false
	}

	year, month, day := now.Date()
	if birth.After(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)) {
		return 0, false
	}
	return AgeOn(birth, now), true
}

/*
Prepare returns the payload form of a draft as of now.

Derived fields are recomputed (age from dateOfBirth), a category slug is
replaced by its display name and, for a self-nomination, the nominator contact block is taken from the nominee with
relationship "self". The receiver is not modified.
*/
func (draft Draft) Prepare(now time.Time) Draft {
	prepared := draft.Clone()

	if age, ok := DeriveAge(prepared.Nominee.DateOfBirth, now); ok {
		prepared.Nominee.Age = age
	} else {
		prepared.Nominee.Age = 0
	}

	if category, ok := LookupCategory(prepared.AwardCategory); ok {
		prepared.AwardCategory = category.Name
	}

	if prepared.Nominator.IsSelfNomination {
		prepared.Nominator.FirstName = prepared.Nominee.FirstName
		prepared.Nominator.LastName = prepared.Nominee.LastName
		prepared.Nominator.Email = prepared.Nominee.Email
		prepared.Nominator.Phone = prepared.Nominee.Phone
		prepared.Nominator.Relationship = NominatorSelf
	}

	return prepared
}
