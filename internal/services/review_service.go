package services

import (
	"fmt"
	"time"

	"reviewdeck_backend/internal/email"
	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/repositories"
	"reviewdeck_backend/internal/services/dto"
	"reviewdeck_backend/pkg/apperrors"
	"reviewdeck_backend/pkg/rtevents"

	"gorm.io/gorm"
)

type ReviewService interface {
	GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	GetProjectReviews(db *gorm.DB, projectID string, page, pageSize int) (*dto.ReviewListResponse, error)

	// UpdateStatus validates the requested lifecycle value, persists it
	// and notifies the project room. Notification failures never fail
	// the call: the returned error tracks persistence only.
	UpdateStatus(db *gorm.DB, reviewID, status string, origin dto.Origin) (*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	notifier   Notifier
	email      email.Provider
	adminEmail string
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	notifier Notifier,
	emailProvider email.Provider,
	adminEmail string,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		notifier:   notifier,
		email:      emailProvider,
		adminEmail: adminEmail,
	}
}

// ---------------- Review Operations ----------------

func (s *reviewService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrReviewNotFound(err)
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return buildReviewResponse(review), nil
}

func (s *reviewService) GetProjectReviews(db *gorm.DB, projectID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindReviewsByProject(db, projectID, page, pageSize)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	var reviewResponses []*dto.ReviewResponse
	for i := range reviews {
		reviewResponses = append(reviewResponses, buildReviewResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    reviewResponses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *reviewService) UpdateStatus(db *gorm.DB, reviewID, status string, origin dto.Origin) (*dto.ReviewResponse, error) {
	parsed := models.ReviewStatus(status)
	if !parsed.Valid() {
		return nil, apperrors.ErrInvalidStatus("review",
			"Invalid status. Must be PENDING, APPROVED, or REJECTED")
	}

	review, err := s.reviewRepo.UpdateReviewStatus(db, reviewID, parsed)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrReviewNotFound(err)
		}
		return nil, apperrors.ErrDatabase(err)
	}

	// The write succeeded; everything past this point is best-effort.
	s.publishStatusEvents(review, origin)
	go s.sendStatusEmail(review, origin)

	return buildReviewResponse(review), nil
}

// ---------------- Notification (best-effort) ----------------

// publishStatusEvents emits reviewStatusUpdated plus the acknowledgement
// addressed to the party opposite of the originator. Errors are logged
// and swallowed.
func (s *reviewService) publishStatusEvents(review *models.Review, origin dto.Origin) {
	if s.notifier == nil {
		logger.Warn("Realtime hub not available for review status update", "review_id", review.ID)
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)

	statusEvent := rtevents.ReviewStatusUpdatedPayload{
		ReviewID:    review.ID,
		ProjectID:   review.ProjectID,
		Status:      string(review.Status),
		UpdatedAt:   review.UpdatedAt.UTC().Format(time.RFC3339),
		Timestamp:   now,
		Message:     fmt.Sprintf("Review status updated to: %s", review.Status),
		IsFromAdmin: origin.IsAdmin,
	}
	if err := s.notifier.PublishToProject(review.ProjectID, rtevents.EventReviewStatusUpdated, statusEvent); err != nil {
		logger.WithError(err).Warn("Failed to publish reviewStatusUpdated", "review_id", review.ID, "project_id", review.ProjectID)
		return
	}

	ack := rtevents.AckMessagePayload{
		Type:      "status_updated",
		Timestamp: now,
	}
	if origin.IsAdmin {
		ack.From = "Admin"
		ack.To = "Client"
		ack.Message = fmt.Sprintf("Review status updated to %s by Admin", review.Status)
	} else {
		ack.From = "Client"
		ack.To = "Admin"
		ack.Message = fmt.Sprintf("Client updated review status to %s", review.Status)
	}
	if err := s.notifier.PublishToProject(review.ProjectID, rtevents.EventDummySuccessMessage, ack); err != nil {
		logger.WithError(err).Warn("Failed to publish acknowledgement", "review_id", review.ID, "project_id", review.ProjectID)
		return
	}

	logger.Info("Emitted reviewStatusUpdated", "review_id", review.ID, "project_id", review.ProjectID)
}

// sendStatusEmail mails the opposite party: admin-originated changes go
// to the project's client contact, client-originated ones to the admin
// inbox. Best-effort, same isolation as the realtime publish.
func (s *reviewService) sendStatusEmail(review *models.Review, origin dto.Origin) {
	if s.email == nil {
		return
	}

	var to string
	if origin.IsAdmin {
		to = review.Project.ClientEmail
	} else {
		to = s.adminEmail
	}
	if to == "" {
		return
	}

	msg := &email.Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Review status updated to %s", review.Status),
		Body: fmt.Sprintf("The status of review %q in project %q is now %s.",
			review.Title, review.Project.Name, review.Status),
	}
	if err := s.email.Send(msg); err != nil {
		logger.WithError(err).Warn("Failed to send status notification email", "review_id", review.ID, "to", to)
	}
}

// ---------------- Helpers ----------------

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:        review.ID,
		ProjectID: review.ProjectID,
		FileID:    review.FileID,
		Title:     review.Title,
		Status:    string(review.Status),
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
