package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fleetbook/pkg/interval"
	"fleetbook/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// ConflictValidator checks request bodies of the conflict endpoints.
type ConflictValidator struct {
	validate      *validator.Validate
	logger        *logger.Logger
	maxCandidates int
}

func NewConflictValidator(log *logger.Logger, maxCandidates int) *ConflictValidator {
	v := validator.New()

	// Report json names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}

	return &ConflictValidator{
		validate:      v,
		logger:        log,
		maxCandidates: maxCandidates,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	_, err := interval.TimeToMinutes(fl.Field().String())
	return err == nil
}

// Validate checks any request struct from pkg/model.
func (v *ConflictValidator) Validate(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateBatchSize rejects batches larger than the configured maximum.
func (v *ConflictValidator) ValidateBatchSize(n int) error {
	if v.maxCandidates > 0 && n > v.maxCandidates {
		return ValidationErrors{{
			Field:   "candidates",
			Message: fmt.Sprintf("at most %d candidates per request, got %d", v.maxCandidates, n),
		}}
	}
	return nil
}

func (v *ConflictValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := fieldPath(err)
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "required_without":
			message = fmt.Sprintf("%s is required when %s is not set", field, toSnake(err.Param()))
		case "excluded_with":
			message = fmt.Sprintf("%s cannot be combined with %s", field, toSnake(err.Param()))
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "clock_time":
			message = fmt.Sprintf("%s must be a time in HH:MM 24-hour format", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the root struct name, so "BookingsCheckRequest.candidates[0].date"
// becomes "candidates[0].date".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

// toSnake converts the Go field name in a tag parameter to its json name.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
