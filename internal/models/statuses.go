package models

type ReviewStatus string
type UserRole string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"

	UserRoleAdmin  UserRole = "admin"
	UserRoleClient UserRole = "client"
)

// Valid reports whether s is one of the three lifecycle values.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}
