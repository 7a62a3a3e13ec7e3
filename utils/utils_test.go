package utils

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$4.50", FormatPrice(decimal.RequireFromString("4.5")))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$1,234.57", FormatPrice(decimal.RequireFromString("1234.567")))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(NewValidationError("price", "must not be negative")))
	assert.Equal(t, http.StatusNotFound, StatusFor(NewNotFoundError("table", "t1")))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(Transient("load", errors.New("timeout"))))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestTransientKeepsClassification(t *testing.T) {
	nf := NewNotFoundError("table", "t1")
	assert.Same(t, nf, Transient("load table", nf))
	assert.Nil(t, Transient("noop", nil))
	assert.True(t, IsNotFound(Transient("load", nf)))
	assert.True(t, IsValidation(NewValidationError("", "bad")))
}

func TestOwnerToken(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateOwnerToken(secret, "owner-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseOwnerToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.Subject)

	_, err = ParseOwnerToken([]byte("other"), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	blank, err := GenerateOwnerToken(secret, "", time.Hour)
	require.NoError(t, err)
	_, err = ParseOwnerToken(secret, blank)
	assert.ErrorIs(t, err, ErrMissingOwner)
}
