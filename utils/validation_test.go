package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type albumQuery struct {
	Service string `validate:"omitempty,oneof=flickr facebook"`
	Name    string `validate:"omitempty,min=1,max=200"`
	Since   string `validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      albumQuery
		wantErr    bool
		wantFields []string
	}{
		{
			name:    "valid query",
			input:   albumQuery{Service: "flickr", Name: "Vacation", Since: "2024-06-01"},
			wantErr: false,
		},
		{
			name:    "empty query is valid",
			input:   albumQuery{},
			wantErr: false,
		},
		{
			name:       "unknown service",
			input:      albumQuery{Service: "picasa"},
			wantErr:    true,
			wantFields: []string{"Service"},
		},
		{
			name:       "bad date",
			input:      albumQuery{Since: "June 2024"},
			wantErr:    true,
			wantFields: []string{"Since"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			fields := GetValidationFields(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "Validation failed"}
	assert.Equal(t, "Validation failed", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Message: "boom"}))
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}

func TestGetValidationFields_NonValidationError(t *testing.T) {
	assert.Nil(t, GetValidationFields(errors.New("boom")))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("photoset", "id"))
	assert.Error(t, ValidateRequired("", "id"))
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"flickr", "facebook"}

	assert.NoError(t, ValidateOneOf("flickr", "service", allowed))
	err := ValidateOneOf("picasa", "service", allowed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service must be one of")
}
