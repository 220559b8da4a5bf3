package services

// Notifier publishes events to a project-scoped room. The realtime hub
// implements it; services depend on the interface so the hub stays a
// best-effort side channel and never becomes a compile-time cycle.
type Notifier interface {
	PublishToProject(projectID, event string, payload any) error
}
