package httpx

import (
	"errors"
	"net/http"

	"github.com/wcloud/dynamicmenu/internal/shared"
)

// RespondError maps domain errors onto the failure envelope.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, shared.ErrDuplicate):
		Fail(w, http.StatusConflict, "duplicate entry")
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, "validation failed")
	default:
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
