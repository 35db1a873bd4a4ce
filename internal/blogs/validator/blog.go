package validator

import (
	"clinic/pkg/logger"
	"clinic/pkg/model"
	"clinic/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BlogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBlogValidator(log *logger.Logger) *BlogValidator {
	return &BlogValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *BlogValidator) Validate(blog *model.Blog) error {
	return validation.Struct(v.validate, blog, nil)
}
