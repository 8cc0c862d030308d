package handling

import (
	"errors"
	"modfy_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError maps service errors onto responses. Expected client errors are logged as warnings,
// everything else as an error with a generic 500 body.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.BadRequest(w, gecho.WithMessage("Invalid input"), gecho.WithData(validationErr), gecho.Send())
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.BadRequest(w, gecho.WithMessage("Request body too large"), gecho.Send())
		return
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Resource not found"), gecho.Send())
		return
	case errors.Is(err, lib.ErrConflict):
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.Conflict(w, gecho.WithMessage("Resource already exists"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidStatusTransition):
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.Conflict(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	case errors.Is(err, lib.ErrEmptyCart):
		gecho.BadRequest(w, gecho.WithMessage("Cart is empty"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidParent):
		gecho.BadRequest(w, gecho.WithMessage("Invalid input"), gecho.WithData(lib.NewValidationError("parentId", err.Error())), gecho.Send())
		return
	case errors.Is(err, lib.ErrUnsupportedFile):
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.BadRequest(w, gecho.WithMessage("Only image files are allowed"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidInput):
		gecho.BadRequest(w, gecho.WithMessage("Invalid input"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid email or password"), gecho.Send())
		return
	case errors.Is(err, lib.ErrUnauthenticated):
		gecho.Unauthorized(w, gecho.WithMessage("Not authenticated"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.BadRequest(w, gecho.WithMessage("Invalid or expired token"), gecho.Send())
		return
	case errors.Is(err, lib.ErrForbidden):
		logger.Warn(msg, gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
	return
}

// InvalidBody answers a request whose body or parameters failed to parse or validate.
func InvalidBody(err error, logger *gecho.Logger, w http.ResponseWriter) {
	HandleError(err, "Invalid request", logger, w)
}
