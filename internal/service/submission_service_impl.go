package service

import (
	"context"
	"time"

	"github.com/codeteak/backend/internal/model"
	"github.com/codeteak/backend/internal/repository"
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo     repository.SubmissionRepository
	notifier Notifier
}

// NewSubmissionService creates a SubmissionService backed by the given
// repository. notifier may be nil when notifications are disabled.
func NewSubmissionService(repo repository.SubmissionRepository, notifier Notifier) SubmissionService {
	return &submissionServiceImpl{repo: repo, notifier: notifier}
}

// Submit stores a new submission with status "new" and a server-side
// timestamp, then hands the stored record to the notifier. Notification
// delivery never affects the returned error.
func (s *submissionServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	sub.Timestamp = time.Now().UTC()
	sub.Status = model.StatusNew

	if err := s.repo.Create(ctx, sub); err != nil {
		return err
	}

	if s.notifier != nil {
		stored := *sub
		s.notifier.SubmissionReceived(&stored)
	}
	return nil
}

// List returns one page of submissions with totalPages = ceil(total/limit).
func (s *submissionServiceImpl) List(ctx context.Context, opts model.SubmissionListOptions) (*model.SubmissionPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Submission{}
	}

	totalPages := 0
	if opts.Limit > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}

	return &model.SubmissionPage{
		Items:      items,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus changes the status of one submission.
func (s *submissionServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes one submission.
func (s *submissionServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	return nil
}
