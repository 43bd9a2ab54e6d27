package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codeteak/backend/internal/model"
)

// FallbackSubmissionRepository wraps a durable repository with an ephemeral
// one. When the durable backend fails an operation, the same operation is
// retried against the in-memory tier so the contact form keeps working
// through a database outage. The two tiers are never reconciled: records
// written to memory during an outage stay there until the process exits.
//
// ErrNotFound is a domain answer, not a backend failure, and passes through
// without triggering the fallback.
type FallbackSubmissionRepository struct {
	durable   SubmissionRepository
	ephemeral SubmissionRepository
}

// NewFallbackSubmissionRepository wraps durable with the given ephemeral fallback.
func NewFallbackSubmissionRepository(durable, ephemeral SubmissionRepository) *FallbackSubmissionRepository {
	return &FallbackSubmissionRepository{durable: durable, ephemeral: ephemeral}
}

var _ SubmissionRepository = (*FallbackSubmissionRepository)(nil)

// Create writes to the durable tier, falling back to memory on failure.
func (r *FallbackSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	if err := r.durable.Create(ctx, sub); err != nil {
		slog.Warn("durable store create failed, falling back to memory", "error", err)
		return r.ephemeral.Create(ctx, sub)
	}
	return nil
}

// List reads from the durable tier, falling back to the (possibly empty)
// memory tier on failure. Callers cannot distinguish "no data" from
// "database unreachable" here; the handler surfaces a backend-indicator
// flag for that.
func (r *FallbackSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
	items, total, err := r.durable.List(ctx, opts)
	if err != nil {
		slog.Warn("durable store list failed, falling back to memory", "error", err)
		return r.ephemeral.List(ctx, opts)
	}
	return items, total, nil
}

// UpdateStatus updates in the durable tier, retrying against memory when the
// durable tier errors for reasons other than a missing record.
func (r *FallbackSubmissionRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error) {
	sub, err := r.durable.UpdateStatus(ctx, id, status)
	if err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("durable store update failed, falling back to memory", "id", id, "error", err)
		return r.ephemeral.UpdateStatus(ctx, id, status)
	}
	return sub, err
}

// Delete deletes from the durable tier, retrying against memory on failure.
func (r *FallbackSubmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.durable.Delete(ctx, id)
	if err != nil {
		slog.Warn("durable store delete failed, falling back to memory", "id", id, "error", err)
		return r.ephemeral.Delete(ctx, id)
	}
	return deleted, nil
}
