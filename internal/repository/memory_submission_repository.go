package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codeteak/backend/internal/model"
	"github.com/google/uuid"
)

// MemorySubmissionRepository is the ephemeral, process-scoped implementation
// of SubmissionRepository. It backs the contact form when no database is
// configured and absorbs writes when the durable backend is unreachable.
// Data does not survive a restart; that tradeoff is accepted for a
// marketing-site contact form.
type MemorySubmissionRepository struct {
	mu   sync.Mutex
	subs []*model.Submission

	now func() time.Time // injectable for tests
}

// NewMemorySubmissionRepository creates an empty in-memory repository.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{now: time.Now}
}

var _ SubmissionRepository = (*MemorySubmissionRepository)(nil)

// order tracks insertion order per id so descending-timestamp sorting is
// stable across equal timestamps.
type orderedSubmission struct {
	sub *model.Submission
	seq int64
}

// Create stores a copy of sub and assigns a locally generated opaque id of
// the form sub_<unixms>_<token>.
func (r *MemorySubmissionRepository) Create(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub.ID = fmt.Sprintf("sub_%d_%s", r.now().UnixMilli(), shortToken())
	stored := *sub
	r.subs = append(r.subs, &stored)
	return nil
}

// List returns one page sorted by timestamp descending. The backing slice is
// append-only, so insertion order doubles as the tiebreaker.
func (r *MemorySubmissionRepository) List(_ context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered := make([]orderedSubmission, len(r.subs))
	for i, s := range r.subs {
		ordered[i] = orderedSubmission{sub: s, seq: int64(i)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].sub.Timestamp, ordered[j].sub.Timestamp
		if ti.Equal(tj) {
			return ordered[i].seq > ordered[j].seq
		}
		return ti.After(tj)
	})

	total := len(ordered)
	start := opts.Offset()
	if start >= total {
		return []*model.Submission{}, total, nil
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	items := make([]*model.Submission, 0, end-start)
	for _, o := range ordered[start:end] {
		cp := *o.sub
		cp.Status = model.NormalizeStatus(cp.Status)
		items = append(items, &cp)
	}
	return items, total, nil
}

// UpdateStatus sets the status of one stored submission. Idempotent. The
// status is normalized at the write so stored records only ever carry the two
// known values, matching what the database check constraint enforces.
func (r *MemorySubmissionRepository) UpdateStatus(_ context.Context, id, status string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.findByID(id)
	if s == nil {
		return nil, ErrNotFound
	}
	s.Status = model.NormalizeStatus(status)
	cp := *s
	return &cp, nil
}

// Delete removes one stored submission, reporting whether anything was removed.
func (r *MemorySubmissionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// findByID returns the stored record (not a copy) or nil. Callers must hold r.mu.
func (r *MemorySubmissionRepository) findByID(id string) *model.Submission {
	for _, s := range r.subs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// shortToken returns a short random suffix for locally generated ids.
func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
