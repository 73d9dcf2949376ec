package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	hhmmRegex     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	telefonoRegex = regexp.MustCompile(`^\+?[\d\s-]{9,16}$`)
)

// registerRules registers the tags used by the DTOs.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", isClockTime); err != nil {
		return err
	}
	if err := v.RegisterValidation("fecha", isCalendarDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("turno", isShiftNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("telefono", isPhoneNumber); err != nil {
		return err
	}
	return nil
}

// isClockTime - "HH:MM" en 24h
func isClockTime(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

// isCalendarDate - "YYYY-MM-DD" que además exista en el calendario
func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isShiftNumber(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n == 1 || n == 2
}

func isPhoneNumber(fl validator.FieldLevel) bool {
	return telefonoRegex.MatchString(fl.Field().String())
}
