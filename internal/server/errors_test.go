package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	formID := uuid.New()
	err := &ErrNotFound{Kind: "form", ID: formID.String()}
	assert.Equal(t, "form not found: "+formID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "state_name", Message: "state_name is required"}
	assert.Equal(t, "validation error: state_name - state_name is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrUnknownKind(t *testing.T) {
	err := &ErrUnknownKind{Kind: "memoirs"}
	assert.Equal(t, "unknown addendum kind: memoirs", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrUploadTooLarge(t *testing.T) {
	err := &ErrUploadTooLarge{LimitMB: 25}
	assert.Equal(t, "upload exceeds the 25 MB limit", err.Error())
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(err))
}

func TestHTTPStatusDefault(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
