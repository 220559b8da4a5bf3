package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&loginForm{Email: "a@b.test", Password: "longenough"})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(&loginForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "must be at least 8", vErr.Errors["password"])
	assert.Contains(t, vErr.Error(), "Validation failed")
}
