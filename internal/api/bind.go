package api

import (
	"errors"
	"fmt"

	apperrors "apostila-ai/backend/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// bindError maps a failed ShouldBindJSON. Missing required fields are the
// caller's fault; a body that is not JSON at all fails like any other error.
func bindError(err error, missingFields string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.NewClientInputError(missingFields).WithCause(err)
	}
	return fmt.Errorf("invalid request body: %w", err)
}
