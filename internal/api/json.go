package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/noteservice"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged with op and attrs and reported as "internal error".
func writeError(w http.ResponseWriter, err error, op string, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(apperr.Reason(err)))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, noteservice.ErrNoAttachments):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// decodeJSON reads a bounded JSON body into dst and runs its Validate
// method when it has one.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("invalid JSON body")
	}
	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return apperr.Invalid("%s", err.Error())
		}
	}
	return nil
}
