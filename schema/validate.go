package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// FieldError reports why the value of a field was rejected.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError gathers the errors of one row of a sheet. Row is 1-based
// as displayed by spreadsheet applications.
type ValidationError struct {
	Sheet  string
	Row    int
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var list []string
	for _, fe := range e.Errors {
		list = append(list, fe.Error())
	}
	return fmt.Sprintf("%s!%d: %s: %s", e.Sheet, e.Row, ErrValidation, strings.Join(list, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator checks a record once its values are decoded.
type Validator interface {
	Validate(Record) []FieldError
}

// ValidatorFunc makes a function a Validator.
type ValidatorFunc func(Record) []FieldError

func (f ValidatorFunc) Validate(rec Record) []FieldError {
	return f(rec)
}

// RuleValidator checks each field of a record against its Rules with
// go-playground/validator.
type RuleValidator struct {
	fields   []Field
	validate *validator.Validate
}

func NewRuleValidator(fields ...Field) *RuleValidator {
	return &RuleValidator{
		fields:   fields,
		validate: validator.New(),
	}
}

func (r *RuleValidator) Validate(rec Record) []FieldError {
	var list []FieldError
	for _, f := range r.fields {
		if f.Rules == "" {
			continue
		}
		v, ok := rec[f.Key]
		if !ok || v == nil {
			continue
		}
		err := r.validate.Var(v, f.Rules)
		if err == nil {
			continue
		}
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			list = append(list, FieldError{Field: f.Key, Message: err.Error()})
			continue
		}
		for _, fe := range errs {
			msg := fmt.Sprintf("failed on %q", fe.Tag())
			if p := fe.Param(); p != "" {
				msg = fmt.Sprintf("failed on %q (%s)", fe.Tag(), p)
			}
			list = append(list, FieldError{Field: f.Key, Message: msg})
		}
	}
	return list
}
