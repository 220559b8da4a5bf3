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
	ErrEmptyComment = errors.New("comment text is required")
)

type CommentService interface {
	AddComment(db *gorm.DB, in rtevents.AddCommentPayload) (*rtevents.CommentAddedPayload, error)
}

type commentService struct {
	commentRepo repositories.CommentRepository
}

func NewCommentService(commentRepo repositories.CommentRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
	}
}

func (s *commentService) AddComment(db *gorm.DB, in rtevents.AddCommentPayload) (*rtevents.CommentAddedPayload, error) {
	if in.Comment == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{
		ProjectID:   in.ProjectID,
		ElementID:   in.ElementID,
		Text:        in.Comment,
		AddedBy:     in.AddedBy,
		AddedByName: in.AddedByName,
	}
	if err := s.commentRepo.CreateComment(db, comment); err != nil {
		return nil, err
	}

	return &rtevents.CommentAddedPayload{
		CommentID:   comment.ID,
		ProjectID:   comment.ProjectID,
		ElementID:   comment.ElementID,
		Comment:     comment.Text,
		AddedBy:     comment.AddedBy,
		AddedByName: comment.AddedByName,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}
