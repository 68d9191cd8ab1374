package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/utils"
)

// RegisterValidators adds the custom binding tags used by request structs:
// pin (six ASCII digits) and duplicate_match (a known matching mode).
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return utils.IsPIN(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("duplicate_match", func(fl validator.FieldLevel) bool {
		return admission.DuplicateMatch(fl.Field().String()).Valid()
	})
}
