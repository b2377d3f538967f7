package utils

import (
	"regexp"
	"time"
)

var (
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe   = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	nameRe    = regexp.MustCompile(`^[a-zA-Z\s'\-]{2,50}$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

// ValidName reports whether s looks like a person name.
func ValidName(s string) bool { return nameRe.MatchString(s) }

// ValidDate reports whether s is a YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

var bloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// ValidBloodGroup reports whether s is a recognized blood group.
func ValidBloodGroup(s string) bool { return bloodGroups[s] }

// CheckPasswordStrength validates password complexity. It returns ok plus a
// client-facing message describing the first failed rule.
func CheckPasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !upperRe.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !lowerRe.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !digitRe.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	if !specialRe.MatchString(password) {
		return false, "Password must contain at least one special character"
	}
	return true, "Password is strong"
}
