package models

type Review struct {
	BaseModel
	ProjectID string       `gorm:"type:uuid;not null;index" json:"projectId"`
	FileID    *string      `gorm:"type:uuid;index" json:"fileId,omitempty"`
	Title     string       `json:"title"`
	Status    ReviewStatus `gorm:"type:varchar(16);not null;default:'PENDING';check:status IN ('PENDING','APPROVED','REJECTED')" json:"status"`

	// Relations
	Project Project     `gorm:"foreignKey:ProjectID" json:"-"`
	File    *DesignFile `gorm:"foreignKey:FileID" json:"-"`
}
