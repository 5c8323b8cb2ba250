package shared

import (
	"log/slog"
	"net/http"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindStateConflict, apperr.KindNoData:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteError renders err as a failure envelope. Unexpected errors are logged
// and reported with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindUnexpected {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", requestctx.GetRequestID(r.Context()),
			"err", err,
		)
		message := "Internal server error"
		if ok && appErr.Message != "" {
			message = appErr.Message
		}
		api.Fail(w, http.StatusInternalServerError, message, nil)
		return
	}
	var details any
	if len(appErr.Fields) > 0 {
		details = appErr.Fields
	}
	api.Fail(w, StatusFor(appErr.Kind), appErr.Message, details)
}
