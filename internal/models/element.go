package models

// DesignFile is an uploaded asset under review.
type DesignFile struct {
	BaseModel
	ProjectID string `gorm:"type:uuid;not null;index" json:"projectId"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}

// Element is a reviewable region of a design file. Its status moves
// through the same lifecycle as reviews and changes are broadcast to
// the project room as statusChanged events.
type Element struct {
	BaseModel
	ProjectID string       `gorm:"type:uuid;not null;index" json:"projectId"`
	FileID    *string      `gorm:"type:uuid;index" json:"fileId,omitempty"`
	Name      string       `json:"name"`
	Status    ReviewStatus `gorm:"type:varchar(16);not null;default:'PENDING';check:status IN ('PENDING','APPROVED','REJECTED')" json:"status"`
	UpdatedBy string       `json:"updatedBy"`
}
