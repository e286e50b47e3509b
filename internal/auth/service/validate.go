package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	maxFieldLength    = 256
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	passwordRule = fmt.Sprintf("min=%d,max=%d", MinPasswordLength, MaxPasswordLength)
	lengthRule   = fmt.Sprintf("max=%d", maxFieldLength)
)

// ValidationError lists every field that failed validation, keyed by its
// JSON name. It is deliberately separate from the auth errors.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors collects the first failure per field.
type fieldErrors map[string]string

func (f fieldErrors) fail(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// check runs a validator tag against value and records msg on failure.
func (f fieldErrors) check(field, value, tag, msg string) bool {
	if _, exists := f[field]; exists {
		return false
	}
	if err := validate.Var(value, tag); err != nil {
		f.fail(field, msg)
		return false
	}
	return true
}

func (f fieldErrors) required(field, value string) {
	if !f.check(field, strings.TrimSpace(value), "required", "is required") {
		return
	}
	f.check(field, value, lengthRule, fmt.Sprintf("must be at most %d characters", maxFieldLength))
}

func (f fieldErrors) optional(field string, value *string) {
	if value != nil {
		f.check(field, *value, lengthRule, fmt.Sprintf("must be at most %d characters", maxFieldLength))
	}
}

// email requires a bare address whose domain has a dot.
func (f fieldErrors) email(field, value string) {
	f.required(field, value)
	if !f.check(field, value, "email", "must be a valid email address") {
		return
	}
	if !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		f.fail(field, "must be a valid email address")
	}
}

func (f fieldErrors) password(field, value string) {
	if err := validate.Var(value, passwordRule); err == nil {
		return
	}
	if len([]rune(value)) < MinPasswordLength {
		f.fail(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
		return
	}
	f.fail(field, fmt.Sprintf("must be at most %d characters", MaxPasswordLength))
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidateRegister checks a registration request before it reaches the
// SessionManager.
func ValidateRegister(in domain.RegisterInput) error {
	f := fieldErrors{}
	f.required("branch", in.Branch)
	f.optional("displayName", in.DisplayName)
	f.email("email", in.Email)
	f.optional("phoneNumber", in.PhoneNumber)
	f.required("role", in.Role)
	f.password("password", in.Password)
	return f.err()
}

func ValidateLogin(email, password string) error {
	f := fieldErrors{}
	f.email("email", email)
	f.required("password", password)
	return f.err()
}

func ValidateRefresh(refreshToken string) error {
	f := fieldErrors{}
	f.check("refresh_token", strings.TrimSpace(refreshToken), "required", "is required")
	return f.err()
}

func ValidateChangePassword(current, next string) error {
	f := fieldErrors{}
	f.required("current_password", current)
	f.password("new_password", next)
	if current != "" && current == next {
		f.fail("new_password", "must differ from the current password")
	}
	return f.err()
}
