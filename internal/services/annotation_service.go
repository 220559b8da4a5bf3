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
	ErrEmptyAnnotation = errors.New("annotation text is required")
)

// AnnotationService persists annotations arriving over the realtime
// channel and returns the payload the hub rebroadcasts to the room.
type AnnotationService interface {
	AddAnnotation(db *gorm.DB, in rtevents.AddAnnotationPayload) (*rtevents.AnnotationAddedPayload, error)
	ResolveAnnotation(db *gorm.DB, in rtevents.ResolveAnnotationPayload) (*rtevents.AnnotationResolvedPayload, error)
}

type annotationService struct {
	annotationRepo repositories.AnnotationRepository
}

func NewAnnotationService(annotationRepo repositories.AnnotationRepository) AnnotationService {
	return &annotationService{
		annotationRepo: annotationRepo,
	}
}

func (s *annotationService) AddAnnotation(db *gorm.DB, in rtevents.AddAnnotationPayload) (*rtevents.AnnotationAddedPayload, error) {
	if in.Annotation == "" {
		return nil, ErrEmptyAnnotation
	}

	annotation := &models.Annotation{
		ProjectID:   in.ProjectID,
		FileID:      in.FileID,
		Text:        in.Annotation,
		CoordX:      in.Coordinates.X,
		CoordY:      in.Coordinates.Y,
		AddedBy:     in.AddedBy,
		AddedByName: in.AddedByName,
	}
	if err := s.annotationRepo.CreateAnnotation(db, annotation); err != nil {
		return nil, err
	}

	return &rtevents.AnnotationAddedPayload{
		AnnotationID: annotation.ID,
		ProjectID:    annotation.ProjectID,
		FileID:       annotation.FileID,
		Annotation:   annotation.Text,
		Coordinates:  in.Coordinates,
		AddedBy:      annotation.AddedBy,
		AddedByName:  annotation.AddedByName,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *annotationService) ResolveAnnotation(db *gorm.DB, in rtevents.ResolveAnnotationPayload) (*rtevents.AnnotationResolvedPayload, error) {
	annotation, err := s.annotationRepo.ResolveAnnotation(db, in.AnnotationID, in.ResolvedBy)
	if err != nil {
		return nil, err
	}

	return &rtevents.AnnotationResolvedPayload{
		AnnotationID: annotation.ID,
		ProjectID:    annotation.ProjectID,
		ResolvedBy:   annotation.ResolvedBy,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}
