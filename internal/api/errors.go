package api

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"condoqueixas/internal/errs"
)

type apiErrorBody struct {
	Code    string `json:"code" example:"forbidden"`
	Message string `json:"message" example:"no permission to view complaint"`
}

// apiError is the {"error": {"code", "message"}} envelope every failure uses.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

func newAPIError(status int, code string, message string) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{status: status, Body: apiErrorBody{Code: code, Message: message}}
}

// handleError maps a use-case failure onto its HTTP status. Anything that is
// not a typed failure is reported as an internal error without detail.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return newAPIError(http.StatusBadRequest, "validation_failed", errs.PublicMessage(err))
	case errs.KindNotFound:
		return newAPIError(http.StatusNotFound, "not_found", errs.PublicMessage(err))
	case errs.KindForbidden:
		return newAPIError(http.StatusForbidden, "forbidden", errs.PublicMessage(err))
	case errs.KindRateLimited:
		return newAPIError(http.StatusTooManyRequests, "rate_limited", errs.PublicMessage(err))
	case errs.KindConflict:
		return newAPIError(http.StatusConflict, "conflict", errs.PublicMessage(err))
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}
