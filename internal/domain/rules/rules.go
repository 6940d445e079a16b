// Package rules holds the acceptance rules for account input.
//
// The checks are pure: they never touch the store, so a request that fails
// here is rejected before any I/O happens.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Code identifies which rule rejected the input.
type Code string

const (
	MissingField         Code = "MissingField"
	InvalidEmailFormat   Code = "InvalidEmailFormat"
	InvalidNameFormat    Code = "InvalidNameFormat"
	NameLengthOutOfRange Code = "NameLengthOutOfRange"
	WeakPassword         Code = "WeakPassword"
)

const (
	MinNameLength     = 3
	MaxNameLength     = 100
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72

	// SpecialChars is the closed set that satisfies the special-character requirement.
	SpecialChars = `!@#$%^&*(),.?":{}|<>`
)

const (
	msgInvalidEmail   = "Invalid email format"
	msgNameFormat     = "Full name should contain only letters and spaces"
	msgNameLength     = "Full name must be between 3 and 100 characters"
	msgNameRequired   = "Full name is required"
	msgWeakPassword   = "Password must be at least 8 characters long, contain at least one uppercase letter, one lowercase letter, one number, and one special character."
	msgFieldRequiredF = "%s is required"
)

// space is the ECMAScript \s set: \t\n\v\f\r, Unicode separators (Z) and U+FEFF.
// Go's \s covers ASCII only.
const space = `\t\n\v\f\r\p{Z}\x{FEFF}`

var (
	emailPattern = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z` + space + `]+$`)
)

// Violation is returned by every check in this package.
type Violation struct {
	Code    Code   `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

func violation(code Code, field, msg string) *Violation {
	return &Violation{Code: code, Field: field, Message: msg}
}

func missing(field string) *Violation {
	return violation(MissingField, field, fmt.Sprintf(msgFieldRequiredF, field))
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsFullName reports whether s consists of ASCII letters and whitespace only.
func IsFullName(s string) bool {
	return namePattern.MatchString(s)
}

// IsStrongPassword reports whether pw is between MinPasswordLength characters
// and MaxPasswordBytes bytes, covers all four character classes and uses no
// character outside letters, digits and SpecialChars.
func IsStrongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength || len(pw) > MaxPasswordBytes {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// Register installs the emailshape, fullname and strongpwd tags on v.
func Register(v *validator.Validate) error {
	tags := map[string]func(string) bool{
		"emailshape": IsEmail,
		"fullname":   IsFullName,
		"strongpwd":  IsStrongPassword,
	}
	for tag, fn := range tags {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func check(value, tag string) bool {
	return validate.Var(value, tag) == nil
}

// ValidateEmail checks the email shape.
func ValidateEmail(email string) error {
	if !check(email, "emailshape") {
		return violation(InvalidEmailFormat, "email", msgInvalidEmail)
	}
	return nil
}

// ValidateFullName checks presence, length and character set, in that order.
// emptyCode selects how an empty name is reported.
func ValidateFullName(name string, emptyCode Code) error {
	if !check(name, "required") {
		if emptyCode == MissingField {
			return violation(MissingField, "fullName", msgNameRequired)
		}
		return violation(emptyCode, "fullName", msgNameFormat)
	}
	if !check(name, fmt.Sprintf("min=%d,max=%d", MinNameLength, MaxNameLength)) {
		return violation(NameLengthOutOfRange, "fullName", msgNameLength)
	}
	if !check(name, "fullname") {
		return violation(InvalidNameFormat, "fullName", msgNameFormat)
	}
	return nil
}

// ValidatePassword checks password strength.
func ValidatePassword(pw string) error {
	if !check(pw, "strongpwd") {
		return violation(WeakPassword, "password", msgWeakPassword)
	}
	return nil
}

// RequirePresent fails with MissingField for the first empty value.
// Pairs are given as field, value, field, value...
func RequirePresent(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return missing(pairs[i])
		}
	}
	return nil
}
