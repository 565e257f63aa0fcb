package utils

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notebody", ValidateNoteBodyRule)
	}
}

func ValidateNoteBodyRule(fl validator.FieldLevel) bool {
	return ValidateNoteBody(fl.Field().String())
}

// ValidateNoteBody rejects bodies that would be empty after normalization, so
// a note is never persisted with an empty body.
func ValidateNoteBody(body string) bool {
	return strings.TrimSpace(body) != ""
}
