package httpapi

import (
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/riskibarqy/match-metrics/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "match-metrics"
)

// responseJSON sorts map keys so identical reports serialize identically.
var responseJSON = sonic.ConfigStd

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain   string   `json:"domain"`
	Reason   string   `json:"reason"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
	Allowed  []string `json:"allowed,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = responseJSON.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError reports err in the envelope and returns the status it chose.
func writeError(w http.ResponseWriter, err error) int {
	mapped := mapError(err)
	message := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = "internal server error"
	}

	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  errorItems(mapped, err, message),
		},
	})
	return mapped.HTTPStatus
}

func writeInternalError(w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// errorItems lists one item per offending parameter when err carries
// validation details, and a single generic item otherwise.
func errorItems(mapped mappedError, err error, message string) []googleErrorItem {
	var details []*query.ValidationError

	var many query.ValidationErrors
	var one *query.ValidationError
	switch {
	case errors.As(err, &many):
		details = many
	case errors.As(err, &one):
		details = []*query.ValidationError{one}
	}

	if len(details) == 0 {
		return []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}}
	}

	items := make([]googleErrorItem, 0, len(details))
	for _, item := range details {
		items = append(items, googleErrorItem{
			Domain:   errorDomain,
			Reason:   mapped.Reason,
			Message:  item.Message,
			Location: item.Param,
			Allowed:  item.Allowed,
		})
	}
	return items
}

func mapError(err error) mappedError {
	switch {
	case usecase.IsInvalidInput(err):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case crerr.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	case usecase.IsUnavailable(err):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "requestCanceled", Status: "UNAVAILABLE"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
	}
}
