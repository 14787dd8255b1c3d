package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxBcryptPasswordBytes = 72
)

type passwordPolicy struct {
	rules config.PasswordStrengthConfig
}

// NewPasswordPolicy builds the policy from the passwordStrength section.
func NewPasswordPolicy(cfg *config.Config) service.PasswordPolicy {
	return NewPasswordPolicyWithRules(cfg.PasswordStrength)
}

// NewPasswordPolicyWithRules fills unset limits with defaults.
func NewPasswordPolicyWithRules(rules config.PasswordStrengthConfig) service.PasswordPolicy {
	if rules.MinLength <= 0 {
		rules.MinLength = defaultMinPasswordLength
	}
	if rules.MaxLength <= 0 || rules.MaxLength > maxBcryptPasswordBytes {
		rules.MaxLength = maxBcryptPasswordBytes
	}

	return &passwordPolicy{rules: rules}
}

// Validate checks length in characters, the byte ceiling and the optional character classes.
func (p *passwordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.rules.MinLength {
		return weak(fmt.Sprintf("must be at least %d characters long", p.rules.MinLength))
	}

	if len(password) > p.rules.MaxLength {
		return weak(fmt.Sprintf("must be at most %d bytes long", p.rules.MaxLength))
	}

	if strings.TrimSpace(password) == "" {
		return weak("must not be blank")
	}

	if p.rules.RequireLowercase && !hasLowercase(password) {
		return weak("must contain at least one lowercase letter")
	}

	if p.rules.RequireUppercase && !hasUppercase(password) {
		return weak("must contain at least one uppercase letter")
	}

	if p.rules.RequireNumbers && !hasNumbers(password) {
		return weak("must contain at least one number")
	}

	if p.rules.RequireSpecial && !hasSpecialChars(password) {
		return weak("must contain at least one special character")
	}

	return nil
}

func weak(details string) error {
	return domainerrors.ErrWeakPassword.WithDetails("password " + details)
}

func hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
