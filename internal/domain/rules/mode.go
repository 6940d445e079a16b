package rules

import (
	"fmt"
	"strings"
)

// Mode selects how much of the rule set is enforced.
type Mode string

const (
	// Strict enforces email shape, name shape and length, and password strength.
	Strict Mode = "strict"
	// Lenient only checks that required fields are present.
	Lenient Mode = "lenient"
)

// ParseMode accepts "strict" or "lenient" in any case. Empty means Strict.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Strict:
		return Strict, nil
	case Lenient:
		return Lenient, nil
	default:
		return "", fmt.Errorf("unknown validation mode %q", s)
	}
}

// Ruleset applies the rules for one mode to whole requests.
type Ruleset struct {
	mode Mode
}

func New(mode Mode) *Ruleset {
	if mode != Lenient {
		mode = Strict
	}
	return &Ruleset{mode: mode}
}

func (r *Ruleset) Mode() Mode { return r.mode }

// Strict reports whether the full rule set is enforced.
func (r *Ruleset) Strict() bool { return r.mode == Strict }

// CheckCreate validates email, then full name, then password, stopping at the first failure.
func (r *Ruleset) CheckCreate(fullName, email, password string) error {
	if !r.Strict() {
		return RequirePresent("fullName", fullName, "email", email, "password", password)
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateFullName(fullName, InvalidNameFormat); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// CheckEdit validates the lookup email and full name, and the password only when supplied.
func (r *Ruleset) CheckEdit(email, fullName, password string) error {
	if !r.Strict() {
		return RequirePresent("email", email)
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateFullName(fullName, MissingField); err != nil {
		return err
	}
	if password != "" {
		return ValidatePassword(password)
	}
	return nil
}

// CheckDelete only requires the email. Any stored key may be deleted, including
// one accepted while the service ran in lenient mode; an unknown key is a not-found.
func (r *Ruleset) CheckDelete(email string) error {
	return RequirePresent("email", email)
}

// CheckLookup validates an email used as the lookup key of an upload.
func (r *Ruleset) CheckLookup(email string) error {
	if err := RequirePresent("email", email); err != nil {
		return err
	}
	if r.Strict() {
		return ValidateEmail(email)
	}
	return nil
}
