package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Phone         string `json:"phone" validate:"required,phone10"`
	BusinessType  string `json:"businessType" validate:"required,businesstype"`
	AssociationID string `form:"associationId" validate:"numericid"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(form{Phone: "98765-43210", BusinessType: "catering"}))

	msgs := FieldMessages(v.Struct(form{Phone: "12345", BusinessType: "plumbing", AssociationID: "abc"}))
	assert.Equal(t, map[string]string{
		"phone":         "Phone number must be exactly 10 digits",
		"businessType":  "Select a valid business type",
		"associationId": "Association must be a numeric id",
	}, msgs)
}

func TestFieldMessages_NotValidationError(t *testing.T) {
	assert.Nil(t, FieldMessages(assert.AnError))
}
