package errutil

import "net/http"

// CoreStatus is the transport-agnostic error category carried by BaseError.
type CoreStatus string

const (
	StatusBadRequest        CoreStatus = "BAD_REQUEST"
	StatusValidationFailed  CoreStatus = "VALIDATION_FAILED"
	StatusUnauthorized      CoreStatus = "UNAUTHORIZED"
	StatusForbidden         CoreStatus = "FORBIDDEN"
	StatusNotFound          CoreStatus = "NOT_FOUND"
	StatusConflict          CoreStatus = "CONFLICT"
	StatusPreconditionLost  CoreStatus = "PRECONDITION_LOST"
	StatusResourceExhausted CoreStatus = "RESOURCE_EXHAUSTED"
	StatusUnprocessable     CoreStatus = "UNPROCESSABLE_ENTITY"
	StatusTimeout           CoreStatus = "TIMEOUT"
	StatusInternal          CoreStatus = "INTERNAL"
	StatusUnavailable       CoreStatus = "SERVICE_UNAVAILABLE"
	StatusUnknown           CoreStatus = "UNKNOWN"
)

// HTTPStatus converts the CoreStatus to its closest HTTP status code equivalent.
func (s CoreStatus) HTTPStatus() int {
	switch s {
	case StatusBadRequest, StatusValidationFailed:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict, StatusPreconditionLost:
		return http.StatusConflict
	case StatusResourceExhausted:
		return http.StatusConflict
	case StatusUnprocessable:
		return http.StatusUnprocessableEntity
	case StatusTimeout:
		return http.StatusGatewayTimeout
	case StatusUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
