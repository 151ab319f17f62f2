package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var courseCodePattern = regexp.MustCompile(`^[A-Z]{2,6}[0-9]{3,4}$`)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true, "sunday": true,
}

// BusinessValidator handles domain rule validation beyond struct tags.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a validator with domain rules registered.
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

func (bv *BusinessValidator) registerBusinessRules() {
	_ = bv.validate.RegisterValidation("course_code", validateCourseCode)
	_ = bv.validate.RegisterValidation("time_of_day", validateTimeOfDay)
	_ = bv.validate.RegisterValidation("weekday", validateWeekday)
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSessionTimes checks that a session's window is well formed.
func (bv *BusinessValidator) ValidateSessionTimes(startTime, endTime string) ValidationErrors {
	var errs ValidationErrors

	start, startErr := time.Parse("15:04", startTime)
	if startErr != nil {
		errs = append(errs, *NewValidationError("start_time", "must be a time in HH:MM format", startTime))
	}
	end, endErr := time.Parse("15:04", endTime)
	if endErr != nil {
		errs = append(errs, *NewValidationError("end_time", "must be a time in HH:MM format", endTime))
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		errs = append(errs, *NewValidationError("end_time", "must be after start_time", endTime))
	}

	return errs
}

func validateCourseCode(fl validator.FieldLevel) bool {
	return courseCodePattern.MatchString(fl.Field().String())
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	return weekdays[normalizeWeekday(fl.Field().String())]
}

func normalizeWeekday(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
