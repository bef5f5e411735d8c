package query

import (
	"fmt"
	"strings"
)

// ValidationError reports one bad or contradictory query parameter.
type ValidationError struct {
	Param   string   `json:"param"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"`
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if len(e.Allowed) > 0 {
		msg = fmt.Sprintf("%s (allowed: %s)", msg, strings.Join(e.Allowed, ", "))
	}
	if e.Param == "" {
		return msg
	}
	return e.Param + ": " + msg
}

// ValidationErrors collects every violation found in one parameter set.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, item := range e {
		parts = append(parts, item.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes each violation to errors.As.
func (e ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, item := range e {
		out = append(out, item)
	}
	return out
}

// Err returns nil when there is nothing to report.
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func invalid(param, message string, allowed ...string) *ValidationError {
	return &ValidationError{Param: param, Message: message, Allowed: allowed}
}
