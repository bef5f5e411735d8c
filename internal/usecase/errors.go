package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
)

// Marker errors. Callers test with IsInvalidInput / IsUnavailable rather
// than comparing messages.
var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)

func invalidInput(err error) error {
	return crerr.Mark(err, ErrInvalidInput)
}

func storeUnavailable(err error) error {
	err = crerr.WithHint(crerr.Wrap(err, "fetch match snapshot"), "check SNAPSHOT_SOURCE and the store it points at")
	return crerr.Mark(err, ErrDependencyUnavailable)
}

func IsInvalidInput(err error) bool {
	return crerr.Is(err, ErrInvalidInput)
}

// IsUnavailable covers store outages and requests abandoned by the caller.
func IsUnavailable(err error) bool {
	return crerr.Is(err, ErrDependencyUnavailable) ||
		crerr.Is(err, context.Canceled) ||
		crerr.Is(err, context.DeadlineExceeded)
}
