package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	u, err := DataURL("tok-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "data:image/png;base64,"))

	_, err = DataURL("")
	assert.ErrorIs(t, err, ErrEmptyToken)
}
