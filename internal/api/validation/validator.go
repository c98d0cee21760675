package validation

import (
	"regexp"

	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/i18n"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+!$&*=^|~#{}/\-]+@([a-z0-9\-]+\.)+([a-z]{2,22})$`)

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("contact_email", validateEmail)
}

// validateEmail checks if the email is valid
func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// IsValidEmail reports whether email has the accepted contact address shape.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

type fieldRule struct {
	name     string
	required bool
	// each tag is checked on its own so every violated rule is reported
	tags  []string
	value func(*contact.ContactRequest) *string
}

var contactRules = []fieldRule{
	{name: "name", required: true, tags: []string{"min=3", "max=255"}, value: func(r *contact.ContactRequest) *string { return r.Name }},
	{name: "email", required: true, tags: []string{"min=3", "max=255", "contact_email"}, value: func(r *contact.ContactRequest) *string { return r.Email }},
	{name: "subject", tags: []string{"min=3", "max=255"}, value: func(r *contact.ContactRequest) *string { return r.Subject }},
	{name: "message", required: true, tags: []string{"min=10", "max=8000"}, value: func(r *contact.ContactRequest) *string { return r.Message }},
}

var tagCodes = map[string]common.ErrorCode{
	"min":           common.ErrCodeMinLength,
	"max":           common.ErrCodeMaxLength,
	"contact_email": common.ErrCodeInvalidEmail,
}

// ContactValidator checks contact submissions and localizes the resulting
// error messages.
type ContactValidator struct {
	validate  *validator.Validate
	localizer *i18n.Localizer
}

// NewContactValidator creates a validator using localizer for messages
func NewContactValidator(localizer *i18n.Localizer) *ContactValidator {
	validate := validator.New()
	RegisterValidators(validate)
	return &ContactValidator{
		validate:  validate,
		localizer: localizer,
	}
}

// Validate returns one error per violated rule, in field order. A nil result
// means the request is valid.
func (cv *ContactValidator) Validate(req *contact.ContactRequest, locale string) []common.APIError {
	var errs []common.APIError

	for _, rule := range contactRules {
		label := cv.localizer.T(locale, "validation.field."+rule.name)
		value := rule.value(req)

		if value == nil {
			if rule.required {
				errs = append(errs, common.APIError{
					Code:    string(common.ErrCodeRequired),
					Message: cv.localizer.T(locale, "validation.required", label),
					Field:   rule.name,
				})
			}
			continue
		}

		for _, tag := range rule.tags {
			err := cv.validate.Var(*value, tag)
			if err == nil {
				continue
			}
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok || len(fieldErrs) == 0 {
				continue
			}
			errs = append(errs, cv.toAPIError(fieldErrs[0], rule.name, label, locale))
		}
	}

	return errs
}

func (cv *ContactValidator) toAPIError(fe validator.FieldError, field, label, locale string) common.APIError {
	code, ok := tagCodes[fe.Tag()]
	if !ok {
		code = common.ErrCodeInvalidBody
	}

	var message string
	if fe.Param() != "" {
		message = cv.localizer.T(locale, "validation."+string(code), label, fe.Param())
	} else {
		message = cv.localizer.T(locale, "validation."+string(code), label)
	}

	return common.APIError{
		Code:    string(code),
		Message: message,
		Field:   field,
	}
}
