package repositories

import (
	"errors"
	"time"

	"reviewdeck_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAnnotationNotFound = errors.New("annotation not found")
)

type AnnotationRepository interface {
	CreateAnnotation(db *gorm.DB, annotation *models.Annotation) error
	FindAnnotationsByFile(db *gorm.DB, fileID string) ([]models.Annotation, error)
	ResolveAnnotation(db *gorm.DB, id, resolvedBy string) (*models.Annotation, error)
}

type AnnotationRepositoryImpl struct{}

func NewAnnotationRepository() AnnotationRepository {
	return &AnnotationRepositoryImpl{}
}

func (r *AnnotationRepositoryImpl) CreateAnnotation(db *gorm.DB, annotation *models.Annotation) error {
	return db.Create(annotation).Error
}

func (r *AnnotationRepositoryImpl) FindAnnotationsByFile(db *gorm.DB, fileID string) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := db.Where("file_id = ?", fileID).
		Order("created_at ASC").
		Find(&annotations).Error
	return annotations, err
}

func (r *AnnotationRepositoryImpl) ResolveAnnotation(db *gorm.DB, id, resolvedBy string) (*models.Annotation, error) {
	now := time.Now()
	result := db.Model(&models.Annotation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"resolved":    true,
		"resolved_by": resolvedBy,
		"resolved_at": now,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAnnotationNotFound
	}

	var annotation models.Annotation
	if err := db.First(&annotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &annotation, nil
}
