package services

import (
	"testing"

	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/pkg/rtevents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAnnotationRepo struct {
	created *models.Annotation
}

func (f *fakeAnnotationRepo) CreateAnnotation(db *gorm.DB, annotation *models.Annotation) error {
	annotation.ID = "a1"
	f.created = annotation
	return nil
}

func (f *fakeAnnotationRepo) FindAnnotationsByFile(db *gorm.DB, fileID string) ([]models.Annotation, error) {
	return nil, nil
}

func (f *fakeAnnotationRepo) ResolveAnnotation(db *gorm.DB, id, resolvedBy string) (*models.Annotation, error) {
	a := &models.Annotation{
		ProjectID:  "p1",
		Resolved:   true,
		ResolvedBy: resolvedBy,
	}
	a.ID = id
	return a, nil
}

func TestAddAnnotation(t *testing.T) {
	repo := &fakeAnnotationRepo{}
	svc := NewAnnotationService(repo)

	out, err := svc.AddAnnotation(nil, rtevents.AddAnnotationPayload{
		ProjectID:   "p1",
		FileID:      "f1",
		Annotation:  "The logo is too small",
		Coordinates: rtevents.Coordinates{X: 120, Y: 48},
		AddedBy:     "u1",
		AddedByName: "Dana",
	})

	require.NoError(t, err)
	assert.Equal(t, "a1", out.AnnotationID)
	assert.Equal(t, "The logo is too small", out.Annotation)
	assert.Equal(t, rtevents.Coordinates{X: 120, Y: 48}, out.Coordinates)
	assert.NotEmpty(t, out.Timestamp)

	require.NotNil(t, repo.created)
	assert.Equal(t, 120.0, repo.created.CoordX)
	assert.Equal(t, 48.0, repo.created.CoordY)
}

func TestAddAnnotation_EmptyTextRejected(t *testing.T) {
	repo := &fakeAnnotationRepo{}
	svc := NewAnnotationService(repo)

	_, err := svc.AddAnnotation(nil, rtevents.AddAnnotationPayload{ProjectID: "p1"})

	assert.ErrorIs(t, err, ErrEmptyAnnotation)
	assert.Nil(t, repo.created)
}

func TestResolveAnnotation(t *testing.T) {
	svc := NewAnnotationService(&fakeAnnotationRepo{})

	out, err := svc.ResolveAnnotation(nil, rtevents.ResolveAnnotationPayload{
		ProjectID:    "p1",
		AnnotationID: "a1",
		ResolvedBy:   "u2",
	})

	require.NoError(t, err)
	assert.Equal(t, "a1", out.AnnotationID)
	assert.Equal(t, "u2", out.ResolvedBy)
	assert.NotEmpty(t, out.Timestamp)
}
