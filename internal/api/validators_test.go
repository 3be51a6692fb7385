package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMXPhoneValidation(t *testing.T) {
	registerValidations()
	v := validator.New()
	v.RegisterValidation("mxphone", mxPhone)

	type req struct {
		Phone string `validate:"mxphone"`
	}

	valid := []string{
		"3312345678",
		"52 33 1234 5678",
		"5213312345678",
		"+52 (33) 1234-5678",
	}
	for _, p := range valid {
		assert.NoError(t, v.Struct(req{Phone: p}), p)
	}

	invalid := []string{
		"",
		"12345",
		"331234567890",
		"sin numero",
	}
	for _, p := range invalid {
		assert.Error(t, v.Struct(req{Phone: p}), p)
	}
}
