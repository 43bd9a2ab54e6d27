// Package model holds the data types shared by repository, service and
// handler layers.
package model

import "time"

// Submission statuses. Anything else found in the store is treated as
// StatusNew on the way out.
const (
	StatusNew    = "new"
	StatusSolved = "solved"
)

// ValidStatus reports whether s is one of the two accepted statuses.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusSolved
}

// NormalizeStatus maps any unrecognized status to StatusNew. Reads go through
// this so rows written before the status column existed, or touched by hand,
// still render as actionable in the admin inbox.
func NormalizeStatus(s string) string {
	if !ValidStatus(s) {
		return StatusNew
	}
	return s
}

// Submission is one contact-form message. ID is opaque to callers: the
// durable tier assigns a UUID, the in-memory tier a sub_-prefixed token.
type Submission struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// SubmissionListOptions selects one page of the admin inbox. Page is
// 1-indexed; both fields are expected to be positive by the time they reach a
// repository.
type SubmissionListOptions struct {
	Page  int
	Limit int
}

// Offset returns the number of records to skip for the selected page.
func (o SubmissionListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// SubmissionPage is one page of results plus the pagination totals the admin
// UI renders.
type SubmissionPage struct {
	Items      []*Submission
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
}
