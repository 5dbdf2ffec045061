// Package service holds the gallery's business rules on top of the entity
// repositories:
//
//	caller (cmd/seed, a future UI backend) → Service → Repository → Store
//
// The repositories only know one entity each. Anything that spans entities
// lives here: catalog ordering, increment-only counters, the cascade when a
// model is deleted, the existence checks before a comment or image is
// attached, and the author join for comment threads.
//
// Services depend on the repository interfaces, so the tests can run them
// against the real in-memory store or against fakes.
package service

import (
	"errors"
	"log/slog"

	"github.com/sakif/modelshare/internal/apperror"
)

// isDomainError reports whether err is one of the expected failures a caller
// is meant to handle (bad input, taken value, missing record). Those are not
// logged as errors.
func isDomainError(err error) bool {
	return errors.Is(err, apperror.ErrValidation) ||
		errors.Is(err, apperror.ErrConflict) ||
		errors.Is(err, apperror.ErrNotFound)
}

// logFailure logs err at Error unless it is a domain error.
func logFailure(logger *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	if isDomainError(err) {
		return
	}
	args := make([]any, 0, len(attrs)+1)
	for _, a := range attrs {
		args = append(args, a)
	}
	args = append(args, slog.String("error", err.Error()))
	logger.Error(msg, args...)
}
