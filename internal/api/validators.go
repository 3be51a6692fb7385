package api

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Mexican mobile numbers as the bot stores them: digits only, optionally
// prefixed with 52 or 521, ten significant digits.
var mxPhonePattern = regexp.MustCompile(`^(521?)?\d{10}$`)

var nonDigits = regexp.MustCompile(`\D`)

func mxPhone(fl validator.FieldLevel) bool {
	digits := nonDigits.ReplaceAllString(fl.Field().String(), "")
	return mxPhonePattern.MatchString(digits)
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("mxphone", mxPhone)
	}
}
