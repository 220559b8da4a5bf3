package apperrors

import (
	"net/http"
)

// Factories and predefined values for the errors the review domain
// actually produces.

// ErrNotFound converts a repository "no such row" error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrReviewNotFound is the typed outcome for a status update that
// matched zero rows.
func ErrReviewNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "review", "Review not found", http.StatusNotFound)
}

// ErrInvalidStatus rejects a status value outside the review lifecycle.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrDatabase wraps a persistence failure. 500; the message stays
// operation-neutral because reads and writes share this path.
func ErrDatabase(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "persistence", "Database operation failed", http.StatusInternalServerError)
}

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrEmailTaken - registration against an existing email.
var ErrEmailTaken = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusConflict,
)

// ErrInvalidToken - malformed or expired JWT.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
