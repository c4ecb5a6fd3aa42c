package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain rules to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		switch domain.Gender(fl.Field().String()) {
		case domain.GenderMale, domain.GenderFemale:
			return true
		}
		return false
	}); err != nil {
		return err
	}

	return v.RegisterValidation("interest_status", func(fl validator.FieldLevel) bool {
		return domain.InterestStatus(fl.Field().String()).Valid()
	})
}
