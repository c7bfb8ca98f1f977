package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")

	err := v.Struct(CreateInstructorRequest{InstructorID: "INS-1", LastName: "Reyes", FirstName: "Maria", Email: "nope", Phone: "1"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "email", detail.Field)
	assert.Equal(t, "email must be a valid email address", detail.Message)

	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 1)
}

func TestHandleValidationErrorNonValidator(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorCodeBadRequest, detail.Code)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"StudentID":   "student_id",
		"TrackID":     "track_id",
		"Email":       "email",
		"PhoneNumber": "phone_number",
		"ID":          "id",
	}
	for in, want := range tests {
		assert.Equal(t, want, toSnake(in), in)
	}
}
