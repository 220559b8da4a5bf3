package app

import (
	"reviewdeck_backend/internal/email"
	"reviewdeck_backend/internal/logger"
)

// MockEmailProvider logs outbound mail instead of sending it. Used in
// development and whenever SMTP is not configured.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(e *email.Email) error {
	logger.Info("[MOCK EMAIL] Would send email",
		"to", e.To,
		"subject", e.Subject,
	)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }

func (m *MockEmailProvider) Close() error { return nil }
