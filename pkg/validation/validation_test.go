package validation

import (
	"errors"
	"testing"

	apperrors "clinic/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"full_name" validate:"required,min=2"`
	Age   int    `json:"age" validate:"omitempty,min=18"`
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"omitempty,len=3"`
}

func TestStruct_TranslatesByJSONName(t *testing.T) {
	err := Struct(New(), &sample{Name: "a", Age: 3, Email: "nope", Code: "x"}, map[string]string{
		"len": "%s must have three characters",
	})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, map[string]any{
		"full_name": "full_name must be at least 2 characters",
		"age":       "age must be at least 18",
		"email":     "email must be a valid email address",
		"code":      "code must have three characters",
	}, verrs.Details())
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(New(), &sample{Name: "Ann", Email: "ann@clinic.test"}, nil))
}

func TestAppError(t *testing.T) {
	appErr := AppError("Doctor validation failed", Errors{{Field: "email", Message: "bad"}})
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, map[string]any{"email": "bad"}, appErr.Details)

	appErr = AppError("x", errors.New("boom"))
	assert.Equal(t, map[string]any{"error": "boom"}, appErr.Details)
}
