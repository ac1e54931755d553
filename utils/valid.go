// utils/valid.go
package utils

import (
	"errors"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Document lengths after stripping punctuation.
const (
	CPFLength  = 11
	CNPJLength = 14
	CEPLength  = 8
)

var strictPolicy = bluemonday.StrictPolicy()

// OnlyDigits drops every character that is not 0-9.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// NormalizeCPF strips punctuation and reports whether 11 digits remain.
func NormalizeCPF(cpf string) (string, bool) {
	digits := OnlyDigits(cpf)
	return digits, len(digits) == CPFLength
}

// NormalizeCNPJ strips punctuation and reports whether 14 digits remain.
func NormalizeCNPJ(cnpj string) (string, bool) {
	digits := OnlyDigits(cnpj)
	return digits, len(digits) == CNPJLength
}

// NormalizeCEP strips punctuation and reports whether 8 digits remain.
func NormalizeCEP(cep string) (string, bool) {
	digits := OnlyDigits(cep)
	return digits, len(digits) == CEPLength
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode upper-cases a benefit code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SanitizeText removes every HTML tag and trims surrounding space and
// control characters. Entities escaped by the policy are decoded back.
func SanitizeText(input string) string {
	input = html.UnescapeString(strictPolicy.Sanitize(input))
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}

var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts the date formats sent by the web client: full ISO
// timestamps, datetime-local values and plain dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// StartOfDay returns the calendar date of t, read in t's location, as UTC
// midnight. Plain dates are parsed and stored as UTC midnight, so an item
// dated today compares equal to the cutoff wherever the server runs.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
