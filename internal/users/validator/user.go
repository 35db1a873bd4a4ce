package validator

import (
	"clinic/pkg/logger"
	"clinic/pkg/model"
	"clinic/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *UserValidator) ValidateRegistration(reg *model.Registration) error {
	return validation.Struct(v.validate, reg, nil)
}

func (v *UserValidator) ValidateCredentials(creds *model.Credentials) error {
	return validation.Struct(v.validate, creds, nil)
}

func (v *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	return validation.Struct(v.validate, update, nil)
}
