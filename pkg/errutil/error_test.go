package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("key inventory unavailable", WithErr(cause))

	require.Equal(t, "[SERVICE_UNAVAILABLE] key inventory unavailable: connection refused", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestStatusOf(t *testing.T) {
	err := Conflict("this UTR number has already been used to claim a key")
	require.Equal(t, StatusConflict, StatusOf(err))

	wrapped := fmt.Errorf("claim failed: %w", err)
	require.Equal(t, StatusConflict, StatusOf(wrapped), "status survives wrapping")

	require.Equal(t, StatusUnknown, StatusOf(errors.New("plain")))
	require.Equal(t, CoreStatus(""), StatusOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusConflict, StatusResourceExhausted.HTTPStatus())
	require.Equal(t, http.StatusConflict, StatusPreconditionLost.HTTPStatus())
	require.Equal(t, http.StatusUnprocessableEntity, StatusUnprocessable.HTTPStatus())
	require.Equal(t, http.StatusGatewayTimeout, StatusTimeout.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, StatusUnknown.HTTPStatus())
}
