// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

// statusTransitions lists the admin moves allowed from each status.
// Deletion is allowed from every status except deleted and handled separately.
var statusTransitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusFinalist, StatusRejected},
	StatusFinalist:    {StatusWinner},
}

// reviewTransitions lists the review verdicts reachable from each review status.
var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewPending:   {ReviewApproved, ReviewRejected, ReviewNeedsInfo},
	ReviewNeedsInfo: {ReviewApproved, ReviewRejected, ReviewNeedsInfo},
	ReviewApproved:  {ReviewNeedsInfo},
	ReviewRejected:  {ReviewNeedsInfo},
}

// CanTransition reports whether an admin may move a nomination from one status to another.
func CanTransition(from, to Status) bool {
	if to == StatusDeleted {
		return from != StatusDeleted && from.Valid()
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanReview reports whether a review verdict may follow the current one.
func CanReview(from, to ReviewStatus) bool {
	for _, allowed := range reviewTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusFinalist, StatusWinner, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected, ReviewNeedsInfo:
		return true
	}
	return false
}

// StatusMessage is the applicant-facing explanation of a status.
func StatusMessage(status Status, review ReviewStatus) string {
	switch status {
	case StatusSubmitted:
		return "Your nomination has been received and is waiting for review."
	case StatusUnderReview:
		if review == ReviewNeedsInfo {
			return "Your nomination is under review. The awards team needs more information and will contact the nominator."
		}
		return "Your nomination is being reviewed by the awards committee."
	case StatusFinalist:
		return "Congratulations! The nominee has been selected as a finalist."
	case StatusWinner:
		return "Congratulations! The nominee has been selected as a winner."
	case StatusRejected:
		return "Thank you for your nomination. It was not selected this year."
	case StatusDeleted:
		return "This nomination has been withdrawn."
	}
	return "Status unavailable."
}
