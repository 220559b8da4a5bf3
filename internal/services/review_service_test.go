package services

import (
	"errors"
	"testing"

	"reviewdeck_backend/internal/email"
	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/repositories"
	"reviewdeck_backend/internal/services/dto"
	"reviewdeck_backend/pkg/apperrors"
	"reviewdeck_backend/pkg/rtevents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReviewRepo struct {
	review        *models.Review
	updateErr     error
	listErr       error
	updatedStatus models.ReviewStatus
	updateCalls   int
}

func (f *fakeReviewRepo) CreateReview(db *gorm.DB, review *models.Review) error { return nil }

func (f *fakeReviewRepo) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	if f.review == nil || f.review.ID != id {
		return nil, repositories.ErrReviewNotFound
	}
	return f.review, nil
}

func (f *fakeReviewRepo) FindReviewsByProject(db *gorm.DB, projectID string, page, pageSize int) ([]models.Review, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	if f.review == nil || f.review.ProjectID != projectID {
		return nil, 0, nil
	}
	return []models.Review{*f.review}, 1, nil
}

func (f *fakeReviewRepo) UpdateReviewStatus(db *gorm.DB, id string, status models.ReviewStatus) (*models.Review, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.review.Status = status
	f.updatedStatus = status
	return f.review, nil
}

type published struct {
	projectID string
	event     string
	payload   any
}

type fakeNotifier struct {
	events []published
	err    error
}

func (f *fakeNotifier) PublishToProject(projectID, event string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{projectID, event, payload})
	return nil
}

type fakeEmailProvider struct {
	sent []*email.Email
}

func (f *fakeEmailProvider) Send(e *email.Email) error { f.sent = append(f.sent, e); return nil }
func (f *fakeEmailProvider) Validate() error           { return nil }
func (f *fakeEmailProvider) Close() error              { return nil }

func sampleReview() *models.Review {
	r := &models.Review{
		ProjectID: "project-uuid-1",
		Title:     "Homepage redesign v2",
		Status:    models.ReviewStatusPending,
		Project: models.Project{
			Name:        "Homepage redesign",
			ClientName:  "Acme",
			ClientEmail: "client@acme.test",
		},
	}
	r.ID = "review-uuid-1"
	return r
}

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	for _, status := range []string{"PENDING", "APPROVED", "REJECTED"} {
		t.Run(status, func(t *testing.T) {
			repo := &fakeReviewRepo{review: sampleReview()}
			notifier := &fakeNotifier{}
			svc := NewReviewService(repo, notifier, nil, "")

			resp, err := svc.UpdateStatus(nil, "review-uuid-1", status, dto.Origin{IsAdmin: true})

			require.NoError(t, err)
			assert.Equal(t, status, resp.Status)
			assert.Equal(t, models.ReviewStatus(status), repo.updatedStatus)
		})
	}
}

func TestUpdateStatus_InvalidStatusRejectedBeforeWrite(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview()}
	notifier := &fakeNotifier{}
	svc := NewReviewService(repo, notifier, nil, "")

	for _, status := range []string{"approved", "DONE", "", "Pending"} {
		resp, err := svc.UpdateStatus(nil, "review-uuid-1", status, dto.Origin{})

		require.Error(t, err, "status %q should be rejected", status)
		assert.Nil(t, resp)

		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
		assert.Equal(t, 400, appErr.HTTPCode)
	}

	assert.Zero(t, repo.updateCalls, "invalid statuses must never reach the repository")
	assert.Empty(t, notifier.events, "invalid statuses must never be broadcast")
}

func TestUpdateStatus_UnknownReviewIsNotFound(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview(), updateErr: repositories.ErrReviewNotFound}
	notifier := &fakeNotifier{}
	svc := NewReviewService(repo, notifier, nil, "")

	resp, err := svc.UpdateStatus(nil, "missing-id", "APPROVED", dto.Origin{})

	require.Error(t, err)
	assert.Nil(t, resp)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPCode)
	assert.Empty(t, notifier.events, "a failed write must not be broadcast")
}

func TestUpdateStatus_DatabaseFailureIsInternal(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview(), updateErr: errors.New("connection reset")}
	svc := NewReviewService(repo, &fakeNotifier{}, nil, "")

	_, err := svc.UpdateStatus(nil, "review-uuid-1", "APPROVED", dto.Origin{})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeDatabaseError, appErr.Code)
	assert.Equal(t, 500, appErr.HTTPCode)
}

func TestUpdateStatus_PublishFailureDoesNotFailCall(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview()}
	notifier := &fakeNotifier{err: errors.New("hub is down")}
	svc := NewReviewService(repo, notifier, nil, "")

	resp, err := svc.UpdateStatus(nil, "review-uuid-1", "APPROVED", dto.Origin{IsAdmin: true})

	require.NoError(t, err, "realtime failures are best-effort and must not surface")
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestUpdateStatus_BroadcastsStatusAndInverseAck(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview()}
	notifier := &fakeNotifier{}
	svc := NewReviewService(repo, notifier, nil, "")

	_, err := svc.UpdateStatus(nil, "review-uuid-1", "APPROVED", dto.Origin{IsAdmin: true})
	require.NoError(t, err)

	require.Len(t, notifier.events, 2)

	statusEvt := notifier.events[0]
	assert.Equal(t, "project-uuid-1", statusEvt.projectID)
	assert.Equal(t, rtevents.EventReviewStatusUpdated, statusEvt.event)
	statusPayload, ok := statusEvt.payload.(rtevents.ReviewStatusUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, "review-uuid-1", statusPayload.ReviewID)
	assert.Equal(t, "APPROVED", statusPayload.Status)
	assert.True(t, statusPayload.IsFromAdmin)
	assert.Equal(t, "Review status updated to: APPROVED", statusPayload.Message)

	ackEvt := notifier.events[1]
	assert.Equal(t, rtevents.EventDummySuccessMessage, ackEvt.event)
	ack, ok := ackEvt.payload.(rtevents.AckMessagePayload)
	require.True(t, ok)
	assert.Equal(t, "status_updated", ack.Type)
	assert.Equal(t, "Admin", ack.From)
	assert.Equal(t, "Client", ack.To)
	assert.Equal(t, "Review status updated to APPROVED by Admin", ack.Message)
}

func TestUpdateStatus_ClientOriginAddressesAdmin(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview()}
	notifier := &fakeNotifier{}
	svc := NewReviewService(repo, notifier, nil, "")

	_, err := svc.UpdateStatus(nil, "review-uuid-1", "REJECTED", dto.Origin{IsAdmin: false})
	require.NoError(t, err)

	require.Len(t, notifier.events, 2)
	ack, ok := notifier.events[1].payload.(rtevents.AckMessagePayload)
	require.True(t, ok)
	assert.Equal(t, "Client", ack.From)
	assert.Equal(t, "Admin", ack.To)
	assert.Equal(t, "Client updated review status to REJECTED", ack.Message)

	statusPayload, ok := notifier.events[0].payload.(rtevents.ReviewStatusUpdatedPayload)
	require.True(t, ok)
	assert.False(t, statusPayload.IsFromAdmin)
}

func TestGetReview_NotFound(t *testing.T) {
	svc := NewReviewService(&fakeReviewRepo{}, &fakeNotifier{}, nil, "")

	_, err := svc.GetReview(nil, "nope")

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetProjectReviews_Pagination(t *testing.T) {
	repo := &fakeReviewRepo{review: sampleReview()}
	svc := NewReviewService(repo, &fakeNotifier{}, nil, "")

	list, err := svc.GetProjectReviews(nil, "project-uuid-1", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 1, list.TotalPages)
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, "review-uuid-1", list.Reviews[0].ID)
}

func TestGetProjectReviews_DatabaseFailureHasNeutralMessage(t *testing.T) {
	repo := &fakeReviewRepo{listErr: errors.New("connection reset")}
	svc := NewReviewService(repo, &fakeNotifier{}, nil, "")

	_, err := svc.GetProjectReviews(nil, "project-uuid-1", 1, 20)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeDatabaseError, appErr.Code)
	assert.Equal(t, "Database operation failed", appErr.Message,
		"read failures must not report an update failure")
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, calculateTotalPages(0, 20))
	assert.Equal(t, 1, calculateTotalPages(1, 20))
	assert.Equal(t, 1, calculateTotalPages(20, 20))
	assert.Equal(t, 2, calculateTotalPages(21, 20))
	assert.Equal(t, 0, calculateTotalPages(10, 0))
}
