package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnrollmentAction(t *testing.T) {
	tests := []struct {
		token   string
		want    EnrollmentAction
		wantErr bool
	}{
		{token: "accept", want: ActionAccept},
		{token: "Decline", want: ActionDecline},
		{token: " ACCEPT ", want: ActionAccept},
		{token: "approve", wantErr: true},
		{token: "", wantErr: true},
		{token: "cancel", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseEnrollmentAction(tt.token)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidAction), tt.token)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestActionTargetStatus(t *testing.T) {
	assert.Equal(t, EnrollmentAccepted, ActionAccept.TargetStatus())
	assert.Equal(t, EnrollmentDeclined, ActionDecline.TargetStatus())
}

func TestEnrollmentStatusPredicates(t *testing.T) {
	assert.True(t, EnrollmentPending.Active())
	assert.True(t, EnrollmentAccepted.Active())
	assert.False(t, EnrollmentDeclined.Active())
	assert.False(t, EnrollmentPending.Terminal())
	assert.True(t, EnrollmentCancelled.Terminal())
	assert.False(t, EnrollmentStatus("archived").Valid())
}
