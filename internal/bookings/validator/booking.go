package validator

import (
	"strings"

	"clinic/internal/bookings/slots"
	"clinic/pkg/logger"
	"clinic/pkg/model"
	"clinic/pkg/sanitizer"
	"clinic/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type (
	ValidationError  = validation.Error
	ValidationErrors = validation.Errors
)

type BookingValidator struct {
	validate *validator.Validate
	catalog  *slots.Catalog
	region   string
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger, catalog *slots.Catalog, phoneRegion string) *BookingValidator {
	bv := &BookingValidator{
		validate: validation.New(),
		catalog:  catalog,
		region:   phoneRegion,
		logger:   log,
	}

	tags := map[string]validator.Func{
		"phone":      bv.validatePhone,
		"civil_date": validateCivilDate,
		"time_slot":  bv.validateTimeSlot,
	}
	for tag, fn := range tags {
		if err := bv.validate.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register booking validator",
				"tag", tag,
				"error", err,
			)
		}
	}

	log.Info("Booking validator initialized successfully")

	return bv
}

func (v *BookingValidator) validatePhone(fl validator.FieldLevel) bool {
	return sanitizer.IsValidPhone(fl.Field().String(), v.region)
}

func validateCivilDate(fl validator.FieldLevel) bool {
	_, err := slots.ParseDate(fl.Field().String())
	return err == nil
}

func (v *BookingValidator) validateTimeSlot(fl validator.FieldLevel) bool {
	_, ok := v.catalog.Lookup(fl.Field().String())
	return ok
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.validateStruct(booking)
}

// ValidateFilter checks the optional list filters that have a fixed format.
func (v *BookingValidator) ValidateFilter(filter *model.BookingFilter) error {
	var errs ValidationErrors
	if filter.ProviderID != "" {
		if err := v.validate.Var(filter.ProviderID, "mongodb"); err != nil {
			errs = append(errs, ValidationError{Field: "provider_id", Message: "provider_id must be a valid MongoDB ObjectID"})
		}
	}
	if filter.Date != "" {
		if _, err := slots.ParseDate(filter.Date); err != nil {
			errs = append(errs, ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if filter.Status != "" {
		if err := v.validate.Var(string(filter.Status), "oneof=scheduled completed cancelled"); err != nil {
			errs = append(errs, ValidationError{Field: "status", Message: "status must be one of: scheduled completed cancelled"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) validateStruct(s any) error {
	return validation.Struct(v.validate, s, map[string]string{
		"phone":      "%s must be a valid phone number (e.g., +12015550123)",
		"civil_date": "%s must be in YYYY-MM-DD format",
		"time_slot":  "%s must be one of: " + strings.Join(v.catalog.Strings(), " "),
	})
}
