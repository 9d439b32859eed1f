package webutil

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc
// signature. Classified application errors are translated to their HTTP
// status and returned as a JSON error body; anything unclassified becomes an
// opaque 500. Every failure is recovered here so no user action can crash
// the process.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		statusCode := http.StatusInternalServerError
		publicMessage := "Internal Server Error"

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			statusCode = statusForType(appErr.Type)
			publicMessage = appErr.Message
		}

		logLevel := slog.LevelWarn
		if statusCode >= 500 {
			logLevel = slog.LevelError
		}
		slog.Log(r.Context(), logLevel, "Request failed",
			"code", statusCode,
			"path", r.URL.Path,
			"method", r.Method,
			"error", err,
		)

		RespondWithJSON(w, statusCode, map[string]string{"error": publicMessage})
	}
}

func statusForType(t apperrors.Type) int {
	switch t {
	case apperrors.TypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.TypeAlreadyExists:
		return http.StatusConflict
	case apperrors.TypeInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.TypeStorageUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.TypeDeviceNotFound:
		return http.StatusNotFound
	case apperrors.TypeDeviceUnreachable:
		return http.StatusBadGateway
	case apperrors.TypeInvalidConfiguration:
		return http.StatusUnprocessableEntity
	case apperrors.TypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
