package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// Struct validates a column-binding or option struct using its validate tags.
// Failures are reported as MissingInput or InvalidValue DataErrors so callers
// see the same error taxonomy for binding problems as for data problems.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Report the first violation in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return Missingf(field, "field is required")
		case "min":
			return Invalidf(field, "must be at least %s", e.Param())
		case "max":
			return Invalidf(field, "must not exceed %s", e.Param())
		case "gt":
			return Invalidf(field, "must be greater than %s", e.Param())
		default:
			return Invalidf(field, "validation failed (%s)", e.Tag())
		}
	}

	return err
}

// maxCandidates limits how many valid alternatives an error message lists
const maxCandidates = 5

// Candidates renders a list of valid labels for inclusion in an error message,
// truncated to the first five entries followed by an ellipsis.
func Candidates(labels []string) string {
	quoted := make([]string, 0, maxCandidates+1)
	for i, l := range labels {
		if i == maxCandidates {
			quoted = append(quoted, "...")
			break
		}
		quoted = append(quoted, fmt.Sprintf("%q", l))
	}
	return strings.Join(quoted, ", ")
}
