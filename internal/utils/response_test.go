package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TRAVBUD_BACK-END/internal/apperr"
)

func writeErr(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), err)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "Created", map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Created","data":{"n":1}}`, rec.Body.String())
}

func TestWriteErrorKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("bad", apperr.FieldError{Field: "email", Message: "required"}), http.StatusBadRequest, ""},
		{apperr.Unauthorized("who"), http.StatusUnauthorized, ""},
		{apperr.Forbidden("no"), http.StatusForbidden, ""},
		{apperr.NotFound("gone"), http.StatusNotFound, ""},
		{apperr.Conflict("dup"), http.StatusConflict, ""},
		{fmt.Errorf("join: %w", apperr.ErrCapacityReached), http.StatusUnprocessableEntity, apperr.CodeCapacityReached},
	}
	for _, tt := range tests {
		rec, body := writeErr(t, tt.err)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		assert.False(t, body.Success)
		assert.Equal(t, tt.code, body.Code)
		assert.Empty(t, body.Stack)
	}

	_, body := writeErr(t, apperr.Validation("bad", apperr.FieldError{Field: "email", Message: "required"}))
	assert.Equal(t, []apperr.FieldError{{Field: "email", Message: "required"}}, body.Errors)
}

func TestWriteErrorHidesInternalsInProduction(t *testing.T) {
	SetDevelopment(false)
	rec, body := writeErr(t, errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgSomethingWentWrong, body.Message)
	assert.Empty(t, body.Stack)
}

func TestWriteErrorShowsInternalsInDevelopment(t *testing.T) {
	SetDevelopment(true)
	t.Cleanup(func() { SetDevelopment(false) })

	_, body := writeErr(t, apperr.Internal("load trip", errors.New("pq: connection reset")))
	assert.Equal(t, "load trip: pq: connection reset", body.Message)
	assert.NotEmpty(t, body.Stack)
}
