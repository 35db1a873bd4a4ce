package validator

import (
	"clinic/pkg/logger"
	"clinic/pkg/model"
	"clinic/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type DoctorValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDoctorValidator(log *logger.Logger) *DoctorValidator {
	return &DoctorValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *DoctorValidator) Validate(doctor *model.Doctor) error {
	return validation.Struct(v.validate, doctor, nil)
}
