package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"activation-admin/internal/domain"
	"activation-admin/internal/infra/logging"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUnconfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": "..."}. Store diagnostics are passed through
// so the operator can act on them; anything unclassified is hidden.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		msg = describeValidation(verrs)
	case status == http.StatusInternalServerError && !errors.Is(err, domain.ErrPersistence):
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		logging.With(r.Context(), logger).Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeMessage(w, status, msg)
}

func describeValidation(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be an email address")
		case "max":
			msgs = append(msgs, fe.Field()+" is too long")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
