// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column names shared by the SQL repositories.
package schema

// AwardsNominationTable represents the 'awards.nomination' table
type AwardsNominationTable struct {
	Table        string
	ID           string
	SubmissionID string
	Category     string
	Status       string
	ReviewStatus string
	Document     string
	CreatedAt    string
	UpdatedAt    string
}

// AwardsNomination is the schema definition for awards.nomination
var AwardsNomination = AwardsNominationTable{
	Table:        "awards.nomination",
	ID:           "id",
	SubmissionID: "submissionid",
	Category:     "category",
	Status:       "status",
	ReviewStatus: "reviewstatus",
	Document:     "document",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t AwardsNominationTable) Columns() []string {
	return []string{t.ID, t.SubmissionID, t.Category, t.Status, t.ReviewStatus, t.Document, t.CreatedAt, t.UpdatedAt}
}
