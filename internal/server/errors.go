package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/profile"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Storage failures surface verbatim; enrichment failures never reach here
// because the gateway swallows them.
func HTTPStatus(err error) int {
	var notFound *profile.ErrProfileNotFound
	var writeFailed *profile.RemoteWriteError

	switch {
	case errors.Is(err, profile.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &writeFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
