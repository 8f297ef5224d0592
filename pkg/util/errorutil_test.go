package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("no access")
	mapped := ToDomainError(original)

	require.NotNil(t, mapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("loading ticket: %w", NewNotFound("ticket", nil))
	mapped := ToDomainError(wrapped)

	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)

	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))

	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestNotFoundMessageAndDetails(t *testing.T) {
	err := NewNotFound("ticket", map[string]any{"id": "abc"})

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ticket not found", domainErr.Message)
	assert.Equal(t, "abc", domainErr.Details["id"])
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError(cause)

	assert.ErrorIs(t, err, cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Error(), "connection reset")
}
