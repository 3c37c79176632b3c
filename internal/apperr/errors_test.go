package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKindAndCode(t *testing.T) {
	wrapped := fmt.Errorf("approve: %w", ErrCapacityReached)
	assert.ErrorIs(t, wrapped, ErrCapacityReached)
	assert.NotErrorIs(t, wrapped, ErrTripClosed)

	copyWithContext := DomainRule(CodeQuotaExceeded, "custom message")
	assert.ErrorIs(t, copyWithContext, ErrQuotaExceeded)

	// errors without a code never match each other
	assert.NotErrorIs(t, NotFound("a"), NotFound("b"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", NotFound("x"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindDomainRule, KindOf(ErrOwnerCannotJoin))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInternal:     http.StatusInternalServerError,
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindDomainRule:   http.StatusUnprocessableEntity,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("load user", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load user: dial tcp: refused", err.Error())
	assert.NotEmpty(t, err.Stack)
}
