package service

import (
	"errors"

	"p2p-chat-be/internal/pkg/apperror"
)

var errEventBusDisabled = apperror.New(apperror.CodeServerError, "event bus is not configured")

// storageError wraps every joined storage failure under ErrStorage.
func storageError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return apperror.ErrStorage.Wrap(errors.Join(errs...))
}
