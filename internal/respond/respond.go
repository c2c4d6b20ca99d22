// Package respond writes the {success, data, error} envelope used by every
// JSON endpoint and maps domain errors onto HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/service"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/repository"
)

// ErrBadRequest wraps body decoding failures
var ErrBadRequest = errors.New("invalid request body")

type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes err with the status it maps to. Unknown errors are logged
// and reported with the generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, env := Classify(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		hlog.FromRequest(r).Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	write(w, status, env)
}

// Classify maps err to a status and envelope
func Classify(err error) (int, Envelope) {
	env := Envelope{Success: false, Error: err.Error()}

	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		env.Fields = verr.Fields
		env.Error = verr.General
		if env.Error == "" {
			env.Error = "Please fix the highlighted fields."
		}
		return http.StatusUnprocessableEntity, env
	case errors.Is(err, service.ErrWrongStep),
		errors.Is(err, service.ErrActionInFlight),
		errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict, env
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, env
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidTheme):
		return http.StatusBadRequest, env
	case errors.Is(err, service.ErrPDFUnavailable):
		env.Error = service.PDFFailedMessage
		return http.StatusBadGateway, env
	}
	env.Error = client.GenericErrorMessage
	return http.StatusInternalServerError, env
}

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
