package repositories

import (
	"reviewdeck_backend/internal/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateComment(db *gorm.DB, comment *models.Comment) error
	FindCommentsByElement(db *gorm.DB, elementID string) ([]models.Comment, error)
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

func (r *CommentRepositoryImpl) CreateComment(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

func (r *CommentRepositoryImpl) FindCommentsByElement(db *gorm.DB, elementID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Where("element_id = ?", elementID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
