package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError_MapsKindsToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad", map[string]string{"unit_price": "min"}), http.StatusUnprocessableEntity},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Precondition("no base cost"), http.StatusPreconditionFailed},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		status, body := FromError(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
		assert.False(t, body.Success)
	}
}

func TestFromError_HidesInternalCause(t *testing.T) {
	status, body := FromError(Internal("saving schema", errors.New("deadlock detected")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body.Message, "deadlock")
}

func TestFromError_KeepsValidationFields(t *testing.T) {
	_, body := FromError(Validation("Validation failed", map[string]string{"quantity": "min"}))
	assert.Equal(t, "min", body.Errors["quantity"])
}

func TestAs_UnwrapsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("create schema: %w", NotFound("Product not found"))
	assert.Equal(t, KindNotFound, As(wrapped).Kind)
}
