package controller

import (
	"errors"
	"net/http"

	"github.com/skillcert/skillcert/internal/service"
)

// StatusFromError maps service sentinel errors onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrDeadlineExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
