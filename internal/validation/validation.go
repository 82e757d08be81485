// Package validation wraps go-playground/validator with the storefront's
// custom rules and converts its errors into model.FieldError values.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)

// Validator validates struct tags and reports failures by JSON field name.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a validator with the "expiry" rule registered.
func New() *Validator {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.validate.RegisterValidation("expiry", v.validateExpiry)

	return v
}

// validateExpiry accepts MM/YY dates whose month has not yet ended.
func (v *Validator) validateExpiry(fl validator.FieldLevel) bool {
	m := expiryPattern.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	// First instant of the month after expiry.
	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return v.now().UTC().Before(end)
}

// Struct validates s. Tag failures are returned as a VALIDATION_FAILED
// DomainError carrying one FieldError per invalid field.
func (v *Validator) Struct(s any, message string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, model.FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
		})
	}

	return model.NewValidationError(message, fields)
}
