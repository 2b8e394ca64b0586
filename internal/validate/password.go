// Package validate contains local credential validation: password rules,
// a strength score, and identifier (email/phone) classification. Everything
// here runs before any network call is made.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?~` + "`"

// PasswordRules configures CheckPassword. MinLength is always enforced;
// the remaining checks can be toggled per call site.
type PasswordRules struct {
	MinLength        int
	RequireSpecial   bool
	RequireNumber    bool
	RequireUppercase bool
}

// DefaultRules returns the rule set used across the app: at least 8
// characters and at least one special character.
func DefaultRules() PasswordRules {
	return PasswordRules{MinLength: 8, RequireSpecial: true}
}

// PasswordResult is the outcome of a local password check.
// Strength is a heuristic score in [0,100] and is reported even for
// invalid passwords.
type PasswordResult struct {
	IsValid  bool
	Errors   []string
	Strength int
}

// CheckPassword applies rules to password and computes its strength score.
func CheckPassword(password string, rules PasswordRules) PasswordResult {
	var errs []string

	minLen := rules.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(password) < minLen {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", minLen))
	}
	if rules.RequireSpecial && !strings.ContainsAny(password, specialChars) {
		errs = append(errs, "password must contain at least one special character")
	}
	if rules.RequireNumber && !strings.ContainsFunc(password, unicode.IsDigit) {
		errs = append(errs, "password must contain at least one number")
	}
	if rules.RequireUppercase && !strings.ContainsFunc(password, unicode.IsUpper) {
		errs = append(errs, "password must contain at least one uppercase letter")
	}

	return PasswordResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Strength: Strength(password),
	}
}

// Strength scores a password on a 0..100 scale.
//
// Components: up to 25 points for raw length (4 per character), one-time
// bonuses at the 8/12/16 length thresholds, 5 points per distinct character
// class present (max 20), minus 10 for a run of 3+ identical characters and
// minus 10 if a common keyboard/counting sequence appears.
//
// The sequence penalty outranks the class bonus: appending a character from
// a new class can lower the score when it completes "123", "abc" or "qwe"
// (+5 for the class, -10 for the sequence).
func Strength(password string) int {
	score := 0

	lengthPoints := len(password) * 4
	if lengthPoints > 25 {
		lengthPoints = 25
	}
	score += lengthPoints

	if len(password) >= 8 {
		score += 10
	}
	if len(password) >= 12 {
		score += 15
	}
	if len(password) >= 16 {
		score += 20
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if present {
			score += 5
		}
	}

	if hasRepeatedRun(password, 3) {
		score -= 10
	}
	if hasCommonSequence(password) {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// hasRepeatedRun reports whether s contains n or more identical
// consecutive bytes.
func hasRepeatedRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func hasCommonSequence(s string) bool {
	lower := strings.ToLower(s)
	for _, seq := range []string{"123", "abc", "qwe"} {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return false
}
