package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeteak/backend/internal/model"
	"github.com/codeteak/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mockSubmissionRepository — func-field stub
// ---------------------------------------------------------------------------

type mockSubmissionRepository struct {
	createFunc func(ctx context.Context, sub *model.Submission) error
	listFunc   func(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error)
	updateFunc func(ctx context.Context, id, status string) (*model.Submission, error)
	deleteFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockSubmissionRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, status)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSubmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

// recordingNotifier counts SubmissionReceived calls.
type recordingNotifier struct {
	received []*model.Submission
}

func (n *recordingNotifier) SubmissionReceived(sub *model.Submission) {
	n.received = append(n.received, sub)
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestSubmissionService_Submit_SetsServerSideFields(t *testing.T) {
	before := time.Now().UTC()
	var saved *model.Submission
	repo := &mockSubmissionRepository{
		createFunc: func(ctx context.Context, sub *model.Submission) error {
			saved = sub
			return nil
		},
	}
	svc := NewSubmissionService(repo, nil)

	sub := &model.Submission{FirstName: "Ann", Email: "ann@x.com", Message: "hi"}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected Create to be called")
	}
	if saved.Status != model.StatusNew {
		t.Errorf("expected status=new, got %q", saved.Status)
	}
	if saved.Timestamp.Before(before) || saved.Timestamp.After(time.Now().UTC()) {
		t.Errorf("expected server-side timestamp, got %v", saved.Timestamp)
	}
}

func TestSubmissionService_Submit_NotifiesAfterPersist(t *testing.T) {
	notifier := &recordingNotifier{}
	repo := &mockSubmissionRepository{
		createFunc: func(ctx context.Context, sub *model.Submission) error {
			sub.ID = "sub_1"
			return nil
		},
	}
	svc := NewSubmissionService(repo, notifier)

	sub := &model.Submission{FirstName: "Ann", Email: "ann@x.com", Message: "hi"}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.received) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.received))
	}
	if notifier.received[0].ID != "sub_1" {
		t.Errorf("notifier must see the stored record, got id %q", notifier.received[0].ID)
	}
}

func TestSubmissionService_Submit_NoNotificationOnStoreFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	repo := &mockSubmissionRepository{
		createFunc: func(ctx context.Context, sub *model.Submission) error {
			return errors.New("both tiers down")
		},
	}
	svc := NewSubmissionService(repo, notifier)

	sub := &model.Submission{FirstName: "Ann", Email: "ann@x.com", Message: "hi"}
	if err := svc.Submit(context.Background(), sub); err == nil {
		t.Fatal("expected error")
	}
	if len(notifier.received) != 0 {
		t.Errorf("expected no notification on failed persist, got %d", len(notifier.received))
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestSubmissionService_List_TotalPages(t *testing.T) {
	cases := []struct {
		name       string
		total      int
		limit      int
		totalPages int
	}{
		{"exact multiple", 100, 10, 10},
		{"remainder rounds up", 101, 10, 11},
		{"fewer than one page", 3, 10, 1},
		{"empty", 0, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSubmissionRepository{
				listFunc: func(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
					return nil, tc.total, nil
				},
			}
			svc := NewSubmissionService(repo, nil)

			page, err := svc.List(context.Background(), model.SubmissionListOptions{Page: 1, Limit: tc.limit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.TotalPages != tc.totalPages {
				t.Errorf("expected totalPages=%d, got %d", tc.totalPages, page.TotalPages)
			}
			if page.Items == nil {
				t.Error("expected non-nil items slice for JSON encoding")
			}
		})
	}
}

func TestSubmissionService_List_NormalizesPage(t *testing.T) {
	var gotOpts model.SubmissionListOptions
	repo := &mockSubmissionRepository{
		listFunc: func(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
			gotOpts = opts
			return nil, 0, nil
		},
	}
	svc := NewSubmissionService(repo, nil)

	if _, err := svc.List(context.Background(), model.SubmissionListOptions{Page: 0, Limit: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.Page != 1 {
		t.Errorf("expected page normalized to 1, got %d", gotOpts.Page)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestSubmissionService_Delete_UnknownIDIsNotFound(t *testing.T) {
	repo := &mockSubmissionRepository{
		deleteFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewSubmissionService(repo, nil)

	if err := svc.Delete(context.Background(), "sub_missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
