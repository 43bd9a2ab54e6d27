package service

import (
	"context"

	"github.com/codeteak/backend/internal/model"
)

// SubmissionService defines the business logic for contact-form submissions.
type SubmissionService interface {
	// Submit stores a new submission. The sub.ID, Timestamp and Status are
	// populated by the implementation. On success the notification
	// dispatcher is invoked without blocking the caller.
	Submit(ctx context.Context, sub *model.Submission) error

	// List returns one page of submissions plus pagination totals.
	List(ctx context.Context, opts model.SubmissionListOptions) (*model.SubmissionPage, error)

	// UpdateStatus sets the status of one submission. The status value is
	// validated by the HTTP layer before it reaches here.
	UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error)

	// Delete removes one submission, returning repository.ErrNotFound when
	// the id is unknown.
	Delete(ctx context.Context, id string) error
}
