package models

// Project is the review scope. Its id names the realtime room
// ("project-{id}") and the client contact receives status emails.
// Soft-deleted so closed projects drop out of queries without losing
// their review history.
type Project struct {
	BaseModelWithDeleted
	Name        string `gorm:"not null" json:"name"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
}
