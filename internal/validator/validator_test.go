package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleJSON struct {
	Email string  `json:"email" validate:"required,email"`
	Loyer float64 `json:"loyer" validate:"gt=0"`
}

type sampleForm struct {
	FirstName string `form:"firstName" validate:"required"`
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := New().Validate(&sampleJSON{Email: "not-an-email", Loyer: -1})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "must be greater than 0", vErr.Errors["loyer"])
}

func TestValidator_ReportsFormFieldNames(t *testing.T) {
	t.Parallel()

	err := New().Validate(&sampleForm{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", vErr.Errors["firstName"])
}

func TestValidator_PassesValidStruct(t *testing.T) {
	t.Parallel()

	assert.NoError(t, New().Validate(&sampleJSON{Email: "jean@example.com", Loyer: 850}))
}
