package apperror

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns firstName or first_name into "First Name".
func formatFieldName(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	caser := cases.Title(language.English)
	return caser.String(b.String())
}

// FieldViolation names one field that failed a validation rule.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// MapValidationError converts a gin binding error into an AppError whose
// message names the first offending field and whose details list every
// violation. Malformed JSON and other decode errors map to ErrInvalidInput.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		violations := make([]FieldViolation, len(errs))
		for i, fe := range errs {
			violations[i] = FieldViolation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
		}

		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field).WithDetails(violations)
		default:
			return InvalidField(field).WithDetails(violations)
		}
	}

	return ErrInvalidInput
}
