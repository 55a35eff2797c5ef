package service

import (
	"errors"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
)

// providerError keeps configuration errors as they are and wraps anything else from the provider.
func providerError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.WrapExternalService("Payment provider request failed", err)
}
