package models

type Comment struct {
	BaseModel
	ProjectID   string `gorm:"type:uuid;not null;index" json:"projectId"`
	ElementID   string `gorm:"type:uuid;not null;index" json:"elementId"`
	Text        string `gorm:"not null" json:"text"`
	AddedBy     string `json:"addedBy"`
	AddedByName string `json:"addedByName"`
}
