package repository

import (
	"context"

	"github.com/codeteak/backend/internal/model"
)

// SubmissionRepository is the storage contract for contact submissions. The
// service layer depends only on this interface; which implementation backs it
// (PostgreSQL, in-memory, or the fallback pair) is decided once at startup.
type SubmissionRepository interface {
	// Create stores sub and fills in its ID.
	Create(ctx context.Context, sub *model.Submission) error

	// List returns one page ordered by timestamp descending together with
	// the total record count. A page beyond the data is an empty slice, not
	// an error.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error)

	// UpdateStatus sets the status of one submission and returns the
	// updated record, or ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error)

	// Delete removes one submission, reporting whether a record was
	// actually removed. Unknown ids are (false, nil), not an error.
	Delete(ctx context.Context, id string) (bool, error)
}
