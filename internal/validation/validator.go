package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"trainhub/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in reported
// errors follow the struct's json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates a request DTO against its `validate` tags.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewValidationError(err.Error())}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return domain.NewMissingFieldError(field)
	case "email", "oneof", "alphanum", "url":
		return domain.NewInvalidFormatError(field, fe.Value())
	case "min", "max", "gte", "lte", "gt", "lt", "len":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		}
	default:
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeValidation,
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
			Value:   fe.Value(),
		}
	}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var safeFilename = regexp.MustCompile(`^[A-Za-z0-9._ -]+$`)

// ValidateVideoFilename checks an uploaded file name before it becomes part of an object key.
func (v *Validator) ValidateVideoFilename(name string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	base := filepath.Base(strings.TrimSpace(name))
	switch {
	case base == "" || base == "." || base == "/":
		errs = append(errs, domain.NewMissingFieldError("file"))
	case len(base) > 200:
		errs = append(errs, domain.NewOutOfRangeError("file", len(base), 1, 200))
	case !safeFilename.MatchString(base):
		errs = append(errs, domain.NewInvalidFormatError("file", base))
	}
	return errs
}
