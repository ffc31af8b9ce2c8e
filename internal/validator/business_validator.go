package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// emailPattern mirrors the CHECK constraint on users.email.
var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	fields := make([]string, len(ve))
	for i, e := range ve {
		fields[i] = e.Field
	}
	return fmt.Sprintf("validation failed: %d field errors (%s)", len(ve), strings.Join(fields, ", "))
}

// Err returns nil for an empty list so callers can write `return errs.Err()`.
func (ve ValidationErrors) Err() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// BusinessValidator checks records and requests before they reach the store.
type BusinessValidator struct {
	validate *validator.Validate
}

func New() *BusinessValidator {
	bv := &BusinessValidator{validate: validator.New()}
	bv.registerBusinessRules()
	return bv
}

// Validate runs the struct tags of s.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateAssignmentDates requires the due date to follow the creation time.
func (bv *BusinessValidator) ValidateAssignmentDates(createdAt, dueDate time.Time) ValidationErrors {
	if !createdAt.IsZero() && !dueDate.After(createdAt) {
		return ValidationErrors{{
			Field:   "dueDate",
			Message: "must be after the creation time",
			Value:   dueDate,
			Rule:    "business_logic",
		}}
	}
	return nil
}

// ValidateGrade requires 0 <= score <= maxScore.
func (bv *BusinessValidator) ValidateGrade(score float64, maxScore int) ValidationErrors {
	if score < 0 || score > float64(maxScore) {
		return ValidationErrors{{
			Field:   "score",
			Message: fmt.Sprintf("must be between 0 and %d", maxScore),
			Value:   score,
			Rule:    "business_logic",
		}}
	}
	return nil
}

// ValidateTags rejects empty and oversized tags.
func (bv *BusinessValidator) ValidateTags(tags []string) ValidationErrors {
	var errs ValidationErrors
	if len(tags) == 0 {
		errs = append(errs, ValidationError{Field: "tags", Message: "at least one tag is required", Rule: "required"})
	}
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" || len(tag) > 50 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: "must be between 1 and 50 characters",
				Value:   tag,
				Rule:    "tag",
			})
		}
	}
	return errs
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("edu_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	bv.validate.RegisterValidation("progress", func(fl validator.FieldLevel) bool {
		p := fl.Field().Int()
		return p >= 0 && p <= 100
	})

	bv.validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id == "" || (len(id) <= 64 && !strings.ContainsAny(id, " \t\n"))
	})
}

// ToValidationErrors converts validator output into ValidationErrors.
func ToValidationErrors(err error) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   lowerFirst(fe.Field()),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "edu_email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "progress":
		return "must be between 0 and 100"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "entity_id":
		return "must be at most 64 characters without whitespace"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
