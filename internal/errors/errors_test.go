package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/bggcollect/internal/errors"
)

func TestItemNotFound_KeepsMessageVerbatim(t *testing.T) {
	err := errors.NewItemNotFoundError("Invalid username specified")

	assert.Equal(t, "Invalid username specified", err.Message)
	assert.Equal(t, 404, err.Status)
	assert.True(t, stderrors.Is(err, errors.ErrItemNotFound))
	assert.False(t, stderrors.Is(err, errors.ErrAPI))
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading collection: %w", errors.NewAPIErrorf("missing 'stats' field '%s'", "median"))

	assert.True(t, stderrors.Is(err, errors.ErrAPI))
	assert.Equal(t, errors.ErrCodeAPI, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "missing 'stats' field 'median'")
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(stderrors.New("boom")))
}

func TestAsAppError(t *testing.T) {
	validation := errors.NewValidationError("id", "missing")
	assert.Same(t, validation, errors.AsAppError(fmt.Errorf("wrap: %w", validation)))

	plain := stderrors.New("boom")
	wrapped := errors.AsAppError(plain)
	assert.Equal(t, errors.ErrCodeInternal, wrapped.Code)
	assert.Equal(t, 500, wrapped.Status)
	assert.ErrorIs(t, wrapped, plain)
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.NewTransportError("fetch collection", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, "TRANSPORT_ERROR: fetch collection (connection refused)", err.Error())
}
