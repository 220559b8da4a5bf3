package models

import "time"

type Annotation struct {
	BaseModel
	ProjectID   string     `gorm:"type:uuid;not null;index" json:"projectId"`
	FileID      string     `gorm:"type:uuid;not null;index" json:"fileId"`
	Text        string     `gorm:"not null" json:"text"`
	CoordX      float64    `json:"x"`
	CoordY      float64    `json:"y"`
	AddedBy     string     `json:"addedBy"`
	AddedByName string     `json:"addedByName"`
	Resolved    bool       `gorm:"not null;default:false" json:"resolved"`
	ResolvedBy  string     `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}
