// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package nomination implements the youth-awards nomination workflow.

A nomination starts life as a [Draft] assembled over seven form steps, is
validated, and is persisted by the [Gateway] to the primary document store and
to a file backup. Afterwards only admin review actions change it.

Architecture:

  - Domain: Draft, Nomination, step rules and server validation.
  - Gateway: submission ID, file uploads and the dual write.
  - Service: submit, status lookup and admin review use cases.
  - Stores: PostgreSQL JSONB (primary), JSON files (backup), Redis (status cache).
*/
package nomination

import (
	"slices"
	"time"
)

// # Enumerations

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Nationality string

const (
	NationalityCitizen  Nationality = "citizen"
	NationalityResident Nationality = "resident"
)

type SchoolLevel string

const (
	SchoolPrimary         SchoolLevel = "primary"
	SchoolJuniorSecondary SchoolLevel = "junior_secondary"
	SchoolSeniorSecondary SchoolLevel = "senior_secondary"
	SchoolTertiary        SchoolLevel = "tertiary"
	SchoolNone            SchoolLevel = "not_in_school"
)

// NominatorRelationship is how the nominator knows the nominee.
type NominatorRelationship string

const (
	NominatorParent          NominatorRelationship = "parent"
	NominatorGuardian        NominatorRelationship = "guardian"
	NominatorTeacher         NominatorRelationship = "teacher"
	NominatorMentor          NominatorRelationship = "mentor"
	NominatorCommunityLeader NominatorRelationship = "community_leader"
	NominatorPeer            NominatorRelationship = "peer"
	NominatorSelf            NominatorRelationship = "self"
	NominatorOther           NominatorRelationship = "other"
)

// RefereeRelationship is how the referee knows the nominee.
type RefereeRelationship string

const (
	RefereeTeacher         RefereeRelationship = "teacher"
	RefereeMentor          RefereeRelationship = "mentor"
	RefereeEmployer        RefereeRelationship = "employer"
	RefereeCommunityLeader RefereeRelationship = "community_leader"
	RefereeReligiousLeader RefereeRelationship = "religious_leader"
	RefereeCoach           RefereeRelationship = "coach"
	RefereeOther           RefereeRelationship = "other"
)

// Status is the lifecycle state of a persisted nomination.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under-review"
	StatusFinalist    Status = "finalist"
	StatusWinner      Status = "winner"
	StatusRejected    Status = "rejected"
	StatusDeleted     Status = "deleted"
)

// ReviewStatus is the state of the admin review sub-record.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewApproved  ReviewStatus = "approved"
	ReviewRejected  ReviewStatus = "rejected"
	ReviewNeedsInfo ReviewStatus = "needs-info"
)

// # Draft

type Location struct {
	County    string `json:"county"`
	SubCounty string `json:"subCounty"`
	Ward      string `json:"ward"`
}

type School struct {
	Name  string      `json:"name"`
	Level SchoolLevel `json:"level"`
	Grade string      `json:"grade"`
}

// FileRef describes an uploaded file inside the nomination document.
type FileRef struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Key         string `json:"key,omitempty"`
	Location    string `json:"location,omitempty"`
}

type Nominee struct {
	FirstName   string      `json:"firstName"`
	MiddleName  string      `json:"middleName"`
	LastName    string      `json:"lastName"`
	DateOfBirth string      `json:"dateOfBirth"`
	Age         int         `json:"age"`
	Gender      Gender      `json:"gender"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Nationality Nationality `json:"nationality"`
	Location    Location    `json:"location"`
	School      School      `json:"school"`
	Photo       *FileRef    `json:"photo,omitempty"`
}

type Nominator struct {
	FirstName        string                `json:"firstName"`
	LastName         string                `json:"lastName"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	Relationship     NominatorRelationship `json:"relationship"`
	Organization     string                `json:"organization"`
	IsSelfNomination bool                  `json:"isSelfNomination"`
}

// SocialLinks are optional profile URLs of the nominee.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	TikTok    string `json:"tiktok"`
	Website   string `json:"website"`
}

// Fields returns the non-empty links keyed by their JSON path.
func (links SocialLinks) Fields() map[string]string {
	all := map[string]string{
		"socialMediaLinks.facebook":  links.Facebook,
		"socialMediaLinks.instagram": links.Instagram,
		"socialMediaLinks.twitter":   links.Twitter,
		"socialMediaLinks.linkedin":  links.LinkedIn,
		"socialMediaLinks.tiktok":    links.TikTok,
		"socialMediaLinks.website":   links.Website,
	}
	for path, value := range all {
		if value == "" {
			delete(all, path)
		}
	}
	return all
}

type Referee struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Position     string              `json:"position"`
	Organization string              `json:"organization"`
	Relationship RefereeRelationship `json:"relationship"`
}

// Consent holds the six declarations required before submission.
type Consent struct {
	AccurateInformation  bool `json:"accurateInformation"`
	NomineePermission    bool `json:"nomineePermission"`
	PublicRecognition    bool `json:"publicRecognition"`
	BackgroundCheck      bool `json:"backgroundCheck"`
	DataUsage            bool `json:"dataUsage"`
	AntiFraudDeclaration bool `json:"antiFraudDeclaration"`
}

// Missing returns the JSON paths of every flag that is not set.
func (consent Consent) Missing() []string {
	flags := []struct {
		path string
		set  bool
	}{
		{"consent.accurateInformation", consent.AccurateInformation},
		{"consent.nomineePermission", consent.NomineePermission},
		{"consent.publicRecognition", consent.PublicRecognition},
		{"consent.backgroundCheck", consent.BackgroundCheck},
		{"consent.dataUsage", consent.DataUsage},
		{"consent.antiFraudDeclaration", consent.AntiFraudDeclaration},
	}

	var missing []string
	for _, flag := range flags {
		if !flag.set {
			missing = append(missing, flag.path)
		}
	}
	return missing
}

// Draft is the in-progress nomination assembled by the form.
type Draft struct {
	Nominee          Nominee     `json:"nominee"`
	Nominator        Nominator   `json:"nominator"`
	AwardCategory    string      `json:"awardCategory"`
	ShortBio         string      `json:"shortBio"`
	Achievements     string      `json:"achievements"`
	Impact           string      `json:"impact"`
	WhyDeserveAward  string      `json:"whyDeserveAward"`
	AdditionalInfo   string      `json:"additionalInfo"`
	SocialMediaLinks SocialLinks `json:"socialMediaLinks"`
	SupportingFiles  []FileRef   `json:"supportingFiles"`
	Referee          Referee     `json:"referee"`
	Consent          Consent     `json:"consent"`
}

// Clone returns a deep copy that shares no mutable state with draft.
func (draft Draft) Clone() Draft {
	if draft.Nominee.Photo != nil {
		photo := *draft.Nominee.Photo
		draft.Nominee.Photo = &photo
	}
	draft.SupportingFiles = slices.Clone(draft.SupportingFiles)
	return draft
}

// # Persisted record

// AdminReview records the reviewer's verdict on a nomination.
type AdminReview struct {
	Reviewed   bool         `json:"reviewed"`
	Status     ReviewStatus `json:"status"`
	Notes      string       `json:"notes,omitempty"`
	Score      *int         `json:"score,omitempty"`
	ReviewedBy string       `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time   `json:"reviewedAt,omitempty"`
}

// StatusChange is one entry of the audit trail.
type StatusChange struct {
	From  Status    `json:"from"`
	To    Status    `json:"to"`
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}

// Nomination is the persisted, immutable form of a draft plus review metadata.
type Nomination struct {
	ID           string         `json:"id"`
	SubmissionID string         `json:"submissionId"`
	Status       Status         `json:"status"`
	AdminReview  AdminReview    `json:"adminReview"`
	History      []StatusChange `json:"history,omitempty"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	Draft
}

// Clone returns a deep copy of the record.
func (nomination *Nomination) Clone() *Nomination {
	clone := *nomination
	clone.Draft = nomination.Draft.Clone()
	clone.History = slices.Clone(nomination.History)
	if nomination.AdminReview.Score != nil {
		score := *nomination.AdminReview.Score
		clone.AdminReview.Score = &score
	}
	if nomination.AdminReview.ReviewedAt != nil {
		reviewedAt := *nomination.AdminReview.ReviewedAt
		clone.AdminReview.ReviewedAt = &reviewedAt
	}
	return &clone
}

// # Results

// StorageReport says which of the two writes of a submission succeeded.
type StorageReport struct {
	Primary bool `json:"primary"`
	Backup  bool `json:"backup"`
}

// Durable reports that both writes succeeded.
func (report StorageReport) Durable() bool { return report.Primary && report.Backup }

// Degraded reports that exactly one write succeeded.
func (report StorageReport) Degraded() bool { return report.Primary != report.Backup }

// Failed reports that nothing was stored.
func (report StorageReport) Failed() bool { return !report.Primary && !report.Backup }

// Receipt is returned to the submitter.
type Receipt struct {
	SubmissionID string        `json:"submissionId"`
	Status       Status        `json:"status"`
	Storage      StorageReport `json:"storage"`
}

// StatusView is the applicant-facing status of a submission.
type StatusView struct {
	SubmissionID  string       `json:"submissionId"`
	Status        Status       `json:"status"`
	ReviewStatus  ReviewStatus `json:"reviewStatus"`
	Message       string       `json:"message"`
	AwardCategory string       `json:"awardCategory"`
	SubmittedAt   time.Time    `json:"submittedAt"`
}
