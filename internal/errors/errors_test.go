package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	cause := New("zip: not a valid zip file")
	err := NewValidationError("kp.xlsx", "cannot open workbook", cause)

	assert.Equal(t, "kp.xlsx: cannot open workbook: zip: not a valid zip file", err.Error())
	assert.True(t, Is(err, ErrInvalidInput))
	assert.True(t, Is(err, cause))
	assert.True(t, IsInvalidInput(fmt.Errorf("read: %w", err)))

	var ve *ValidationError
	assert.True(t, As(fmt.Errorf("wrapped: %w", err), &ve))
	assert.Equal(t, "kp.xlsx", ve.Source)

	assert.Equal(t, "bad", NewValidationError("", "bad", nil).Error())
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsInvalidInput(ErrUnsupportedFile))
	assert.True(t, IsInvalidInput(ErrNoSuppliers))
	assert.False(t, IsInvalidInput(New("disk full")))
}
