package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain validations registered
func New() *CustomValidator {
	v := validator.New()

	// tooltype restricts the activity tool variants accepted at the boundary
	v.RegisterValidation("tooltype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "brainstorming", "voting", "transfer":
			return true
		}
		return false
	})

	// voteaction restricts the cast-vote action verbs
	v.RegisterValidation("voteaction", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "add", "remove":
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
