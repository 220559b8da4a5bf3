package services

import (
	"errors"
	"time"

	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/repositories"
	"reviewdeck_backend/pkg/rtevents"

	"gorm.io/gorm"
)

var (
	ErrInvalidElementStatus = errors.New("invalid element status")
)

type ElementService interface {
	UpdateElementStatus(db *gorm.DB, in rtevents.UpdateElementStatusPayload) (*rtevents.StatusChangedPayload, error)
}

type elementService struct {
	elementRepo repositories.ElementRepository
}

func NewElementService(elementRepo repositories.ElementRepository) ElementService {
	return &elementService{
		elementRepo: elementRepo,
	}
}

func (s *elementService) UpdateElementStatus(db *gorm.DB, in rtevents.UpdateElementStatusPayload) (*rtevents.StatusChangedPayload, error) {
	status := models.ReviewStatus(in.Status)
	if !status.Valid() {
		return nil, ErrInvalidElementStatus
	}

	element, err := s.elementRepo.UpdateElementStatus(db, in.ElementID, status, in.UpdatedBy)
	if err != nil {
		return nil, err
	}

	return &rtevents.StatusChangedPayload{
		ElementID: element.ID,
		ProjectID: element.ProjectID,
		Status:    string(element.Status),
		UpdatedBy: element.UpdatedBy,
		Comment:   in.Comment,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
