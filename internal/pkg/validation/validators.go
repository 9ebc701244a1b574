package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/emre/resitdesk/internal/app/models"
)

// letterGrade validates that a string field carries a known letter grade
// symbol (AA..FF).
func letterGrade(fl validator.FieldLevel) bool {
	return models.LetterGrade(fl.Field().String()).IsValid()
}

// RegisterCustomValidators attaches domain validators to gin's binding
// engine so DTO tags like `lettergrade` work in ShouldBindJSON.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("lettergrade", letterGrade)
	}
}
