package services

// ServiceContainer bundles every service for app wiring.
type ServiceContainer struct {
	AuthService       AuthService
	ReviewService     ReviewService
	AnnotationService AnnotationService
	CommentService    CommentService
	ElementService    ElementService
}
