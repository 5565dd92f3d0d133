package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultMinPasswordLength = 6
	MinCardLength            = 16

	MsgEmailEmpty        = "email cannot be empty"
	MsgEmailFormat       = "email must look like login@domain.ru"
	MsgPasswordEmpty     = "password cannot be empty"
	MsgNameEmpty         = "name cannot be empty"
	MsgConfirmEmpty      = "password confirmation cannot be empty"
	MsgPasswordsMismatch = "passwords do not match"
	MsgFieldsRequired    = "please fill in all fields"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9]+@[a-z0-9]+\.[a-z]{2,}$`)

// Validator checks the shopper-facing forms.
type Validator struct {
	minPassword int
	validate    *validator.Validate
}

// New builds a validator enforcing the given minimum password length.
func New(minPasswordLength int) *Validator {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	v := &Validator{minPassword: minPasswordLength}
	v.validate = v.newValidate()
	return v
}

func (v *Validator) newValidate() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = validate.RegisterValidation("shopemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("shoppassword", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= v.minPassword
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return validate
}

func (v *Validator) MinPasswordLength() int { return v.minPassword }

// Email returns a user-facing message, or "" when the address is acceptable.
func (v *Validator) Email(email string) string {
	switch {
	case strings.TrimSpace(email) == "":
		return MsgEmailEmpty
	case !emailPattern.MatchString(email):
		return MsgEmailFormat
	}
	return ""
}

func (v *Validator) Password(password string) string {
	switch {
	case strings.TrimSpace(password) == "":
		return MsgPasswordEmpty
	case len(password) < v.minPassword:
		return v.passwordTooShort()
	}
	return ""
}

func (v *Validator) Name(name string) string {
	if strings.TrimSpace(name) == "" {
		return MsgNameEmpty
	}
	return ""
}

// Confirm checks a new password against its confirmation.
func (v *Validator) Confirm(password, confirmation string) string {
	switch {
	case password == "":
		return MsgPasswordEmpty
	case confirmation == "":
		return MsgConfirmEmpty
	case len(password) < v.minPassword:
		return v.passwordTooShort()
	case password != confirmation:
		return MsgPasswordsMismatch
	}
	return ""
}

func (v *Validator) passwordTooShort() string {
	return fmt.Sprintf("password must be at least %d characters", v.minPassword)
}

// Struct runs the tag rules of a form and returns a validation error with per-field details.
func (v *Validator) Struct(form any) error {
	if err := v.validate.Struct(form); err != nil {
		return v.formatValidationErrors(err)
	}
	return nil
}

func (v *Validator) formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = v.validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func (v *Validator) validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "shopemail":
		return MsgEmailFormat
	case "shoppassword":
		return v.passwordTooShort()
	case "eqfield":
		return MsgPasswordsMismatch
	}
	return "is invalid"
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
