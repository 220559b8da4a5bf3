package email

// Provider sends outbound email. Failures are the caller's problem to
// swallow: status-change notifications are best-effort by contract.
type Provider interface {
	Send(email *Email) error
	Validate() error
	Close() error
}
