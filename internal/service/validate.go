package service

import (
	"fmt"

	"linguo/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateRequest checks the struct tags of req and maps failures to domain.ErrInvalidInput
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
